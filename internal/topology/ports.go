package topology

import (
	"strconv"

	"github.com/docker/go-connections/nat"
	"gopkg.in/yaml.v3"

	"paralaunch/internal/config"
)

// Ports every node listens on inside its container.
const (
	ContainerWSPort  nat.Port = "9944/tcp"
	ContainerRPCPort nat.Port = "9933/tcp"
	ContainerP2PPort nat.Port = "30333/tcp"
)

// PublishedPort maps a host port to a container port.
type PublishedPort struct {
	Host      int
	Container nat.Port
}

func (p PublishedPort) String() string {
	return strconv.Itoa(p.Host) + ":" + p.Container.Port()
}

// MarshalYAML quotes the mapping so YAML 1.1 readers do not parse it as a
// base 60 number.
func (p PublishedPort) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: p.String()}, nil
}

// PortAllocator hands out default host ports. Every node takes the next
// index, whether or not it uses the defaults, so defaults never collide
// across chains.
type PortAllocator struct {
	index int
}

// Index is the index the next node will receive.
func (a PortAllocator) Index() int { return a.index }

// Next returns the published ports of node and the allocator for the node
// after it. Ports pinned in the config are used as given; disabled ports are
// left out.
func (a PortAllocator) Next(node config.Node) ([]PublishedPort, PortAllocator) {
	ports := make([]PublishedPort, 0, 3)
	publish := func(p config.Port, container nat.Port) {
		if p.Disabled {
			return
		}
		host := p.Value
		if !p.IsSet() {
			host = container.Int() + a.index
		}
		ports = append(ports, PublishedPort{Host: host, Container: container})
	}
	publish(node.WSPort, ContainerWSPort)
	publish(node.RPCPort, ContainerRPCPort)
	publish(node.Port, ContainerP2PPort)
	return ports, PortAllocator{index: a.index + 1}
}
