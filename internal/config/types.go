package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errInvalidPort = errors.New("port must be a number or false")

// Port is a published host port. The zero value means "use the default";
// Disabled means no port is published.
type Port struct {
	Value    int
	Disabled bool
}

// IsSet reports whether the port was pinned to a fixed value.
func (p Port) IsSet() bool {
	return !p.Disabled && p.Value != 0
}

// UnmarshalYAML accepts an integer or the literal false.
func (p *Port) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", value.Line, errInvalidPort)
	}
	switch value.ShortTag() {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		if b {
			return fmt.Errorf("line %d: %w", value.Line, errInvalidPort)
		}
		*p = Port{Disabled: true}
		return nil
	case "!!int":
		var v int
		if err := value.Decode(&v); err != nil {
			return err
		}
		if v < 0 || v > 65535 {
			return fmt.Errorf("line %d: port %d out of range", value.Line, v)
		}
		*p = Port{Value: v}
		return nil
	case "!!null":
		*p = Port{}
		return nil
	default:
		return fmt.Errorf("line %d: %w", value.Line, errInvalidPort)
	}
}

// ChainSelector names the chain a parachain is built from. It is written
// either as a bare chain identifier or as a mapping with the identifier
// under base.
type ChainSelector struct {
	Base string `yaml:"base"`
	// Sudo is the name or address installed as sudo key.
	Sudo string `yaml:"sudo"`
	// Collators are names or addresses of the invulnerable collators.
	Collators  []string `yaml:"collators"`
	VolumePath string   `yaml:"volumePath"`
}

type chainSelectorFields ChainSelector

// UnmarshalYAML accepts a scalar identifier or the full mapping.
func (c *ChainSelector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = ChainSelector{Base: value.Value}
		return nil
	case yaml.MappingNode:
		var f chainSelectorFields
		if err := value.Decode(&f); err != nil {
			return err
		}
		*c = ChainSelector(f)
		return nil
	default:
		return fmt.Errorf("line %d: chain must be a name or a mapping", value.Line)
	}
}
