// Package topology assembles the docker-compose deployment that boots the
// network: one service per node with its ports, data volume, build context,
// command line and environment.
package topology

import (
	"fmt"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// ComposeVersion is the compose file format written.
const ComposeVersion = "3.7"

// Build is the build section of a service.
type Build struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

// Ulimit is a soft/hard resource limit pair.
type Ulimit struct {
	Soft int64 `yaml:"soft"`
	Hard int64 `yaml:"hard"`
}

// Service is one compose service.
type Service struct {
	Name        string            `yaml:"-"`
	Ports       []PublishedPort   `yaml:"ports"`
	Volumes     []string          `yaml:"volumes"`
	Build       Build             `yaml:"build"`
	Command     []string          `yaml:"command"`
	Environment map[string]string `yaml:"environment"`
	Ulimits     map[string]Ulimit `yaml:"ulimits,omitempty"`
}

// Compose is a compose file. Services and volumes are written in assembly
// order.
type Compose struct {
	Version  string
	Services []Service
	Volumes  []string
}

// Service returns the service called name.
func (c *Compose) Service(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// MarshalYAML writes services and volumes as mappings keyed by name. Volumes
// are declared with a null body.
func (c *Compose) MarshalYAML() (any, error) {
	services := mapping()
	for _, s := range c.Services {
		var body yaml.Node
		if err := body.Encode(s); err != nil {
			return nil, fmt.Errorf("encode service %s: %w", s.Name, err)
		}
		services.Content = append(services.Content, scalar(s.Name), &body)
	}

	volumes := mapping()
	for _, v := range c.Volumes {
		volumes.Content = append(volumes.Content, scalar(v), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
	}

	root := mapping()
	root.Content = append(root.Content,
		scalar("version"), &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.SingleQuotedStyle, Value: c.Version},
		scalar("services"), services,
		scalar("volumes"), volumes,
	)
	return root, nil
}

// Encode renders the compose file.
func (c *Compose) Encode() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode compose file: %w", err)
	}
	return out, nil
}

// UlimitMap converts parsed ulimits into the compose representation. A later
// entry for the same resource replaces an earlier one.
func UlimitMap(limits []*units.Ulimit) map[string]Ulimit {
	if len(limits) == 0 {
		return nil
	}
	m := make(map[string]Ulimit, len(limits))
	for _, l := range limits {
		m[l.Name] = Ulimit{Soft: l.Soft, Hard: l.Hard}
	}
	return m
}

// DefaultUlimits is the open file limit every node is started with.
func DefaultUlimits() []*units.Ulimit {
	return []*units.Ulimit{{Name: "nofile", Soft: 65536, Hard: 65536}}
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
