// Package config loads the network description: one relay chain and the
// parachains attached to it, each with its nodes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultVolumePath is where node data is mounted when a parachain does not
// configure a volume path.
const DefaultVolumePath = "/data"

// Network is the root of the configuration file.
type Network struct {
	Relaychain RelayChain  `yaml:"relaychain"`
	Parachains []Parachain `yaml:"parachains"`
}

// RelayChain describes the relay chain and its validators.
type RelayChain struct {
	Image string `yaml:"image"`
	Chain string `yaml:"chain"`
	Nodes []Node `yaml:"nodes"`
	// RuntimeGenesisConfig is merged into the runtime genesis config. It is
	// kept as a yaml.Node so key order and large integers survive loading.
	RuntimeGenesisConfig yaml.Node         `yaml:"runtimeGenesisConfig"`
	Flags                []string          `yaml:"flags"`
	Env                  map[string]string `yaml:"env"`
}

// Parachain describes one parachain and its collators.
type Parachain struct {
	ID    int           `yaml:"id"`
	Image string        `yaml:"image"`
	Chain ChainSelector `yaml:"chain"`
	// Parachain is the registration flag written into the relay chain's
	// para registry. Left out of the entry when unset.
	Parachain       *bool             `yaml:"parachain"`
	Nodes           []Node            `yaml:"nodes"`
	Flags           []string          `yaml:"flags"`
	RelaychainFlags []string          `yaml:"relaychainFlags"`
	Env             map[string]string `yaml:"env"`
	VolumePath      string            `yaml:"volumePath"`
}

// Node is one container of a chain.
type Node struct {
	Name            string            `yaml:"name"`
	WSPort          Port              `yaml:"wsPort"`
	RPCPort         Port              `yaml:"rpcPort"`
	Port            Port              `yaml:"port"`
	Flags           []string          `yaml:"flags"`
	RelaychainFlags []string          `yaml:"relaychainFlags"`
	Env             map[string]string `yaml:"env"`
}

// Load reads and decodes the configuration file at path. The result is not
// validated; call Validate before using it.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Network, error) {
	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &n, nil
}

// ChainFile is the name of the parachain's genesis file inside the output
// directory, <base>-<id>.json.
func (p *Parachain) ChainFile() string {
	return fmt.Sprintf("%s-%d.json", p.Chain.Base, p.ID)
}

// DataPath is where the parachain's node data volume is mounted.
func (p *Parachain) DataPath() string {
	switch {
	case p.VolumePath != "":
		return p.VolumePath
	case p.Chain.VolumePath != "":
		return p.Chain.VolumePath
	default:
		return DefaultVolumePath
	}
}

// ChainFile is the name of the relay chain's genesis file, <chain>.json.
func (r *RelayChain) ChainFile() string {
	return r.Chain + ".json"
}

// HasOverrides reports whether runtimeGenesisConfig was set to a non-null
// value.
func (r *RelayChain) HasOverrides() bool {
	n := &r.RuntimeGenesisConfig
	return n.Kind != 0 && !(n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// NodeCount is the number of services the network deploys.
func (n *Network) NodeCount() int {
	total := len(n.Relaychain.Nodes)
	for _, p := range n.Parachains {
		total += len(p.Nodes)
	}
	return total
}
