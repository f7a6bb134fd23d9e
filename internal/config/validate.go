package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"paralaunch/internal/identity"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrDuplicate    = errors.New("duplicate value")

	errOverridesNotMapping = errors.New("relaychain.runtimeGenesisConfig: must be a mapping")
)

// Validate checks the fields every later stage relies on. It reports every
// problem found, joined into one error.
func (n *Network) Validate() error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, field))
	}

	r := &n.Relaychain
	if r.Chain == "" {
		missing("relaychain.chain")
	}
	if r.Image == "" {
		missing("relaychain.image")
	}
	if len(r.Nodes) == 0 {
		missing("relaychain.nodes")
	}
	names := make(map[string]int)
	for i, node := range r.Nodes {
		if node.Name == "" {
			missing(fmt.Sprintf("relaychain.nodes[%d].name", i))
			continue
		}
		// Names that differ only in case or separators share a service
		// name and a dev identity.
		key := identity.KebabCase(node.Name)
		if prev, ok := names[key]; ok {
			errs = append(errs, fmt.Errorf("%w: relaychain.nodes[%d].name %q clashes with relaychain.nodes[%d].name %q", ErrDuplicate, i, node.Name, prev, r.Nodes[prev].Name))
			continue
		}
		names[key] = i
	}
	if r.HasOverrides() && r.RuntimeGenesisConfig.Kind != yaml.MappingNode {
		errs = append(errs, errOverridesNotMapping)
	}

	ids := make(map[int]int)
	for i, p := range n.Parachains {
		field := func(name string) string { return fmt.Sprintf("parachains[%d].%s", i, name) }
		if p.ID <= 0 {
			missing(field("id"))
		} else if prev, ok := ids[p.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %s %d already used by parachains[%d]", ErrDuplicate, field("id"), p.ID, prev))
		} else {
			ids[p.ID] = i
		}
		if p.Image == "" {
			missing(field("image"))
		}
		if p.Chain.Base == "" {
			missing(field("chain.base"))
		}
	}

	return errors.Join(errs...)
}
