package topology

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	units "github.com/docker/go-units"
	"github.com/multiformats/go-multiaddr"

	"paralaunch/internal/config"
	"paralaunch/internal/identity"
)

const (
	relayDataPath   = "/data"
	relayDockerfile = "relaychain.Dockerfile"
)

var (
	errMissingNodeKey = errors.New("topology: no node key for parachain")

	listenAddr = multiaddr.StringCast("/ip4/0.0.0.0/tcp/30333")
)

// Input is what the assembler needs beyond the configuration.
type Input struct {
	// NodeKeys holds the node key of each parachain's first node, by
	// parachain id. Required for parachains with at least one node.
	NodeKeys map[int]identity.NodeKey
	Ulimits  []*units.Ulimit
}

// Assemble builds the compose file for net. Relay chain nodes come first,
// then each parachain's nodes, all drawing host ports from one allocator.
func Assemble(net *config.Network, in Input) (*Compose, error) {
	c := &Compose{Version: ComposeVersion}
	ulimits := UlimitMap(in.Ulimits)
	alloc := PortAllocator{}

	relay := &net.Relaychain
	for _, node := range relay.Nodes {
		var ports []PublishedPort
		ports, alloc = alloc.Next(node)

		name := RelayServiceName(node.Name)
		c.Services = append(c.Services, Service{
			Name:        name,
			Ports:       ports,
			Volumes:     []string{name + ":" + relayDataPath},
			Build:       Build{Context: ".", Dockerfile: relayDockerfile},
			Command:     RelayCommand(relay, node),
			Environment: overlay(relay.Env, node.Env),
			Ulimits:     ulimits,
		})
		c.Volumes = append(c.Volumes, name)
	}

	for i := range net.Parachains {
		para := &net.Parachains[i]
		if len(para.Nodes) == 0 {
			continue
		}
		key, ok := in.NodeKeys[para.ID]
		if !ok {
			return nil, fmt.Errorf("%w %d", errMissingNodeKey, para.ID)
		}
		bootnode, err := Bootnode(para.ID, key.PeerID)
		if err != nil {
			return nil, err
		}

		for idx, node := range para.Nodes {
			var ports []PublishedPort
			ports, alloc = alloc.Next(node)

			name := ParachainServiceName(para.ID, idx)
			peering := "--bootnodes=" + bootnode.String()
			if idx == 0 {
				peering = "--node-key=" + key.Key
			}
			c.Services = append(c.Services, Service{
				Name:        name,
				Ports:       ports,
				Volumes:     []string{name + ":" + para.DataPath()},
				Build:       Build{Context: ".", Dockerfile: ParachainDockerfile(para.ID)},
				Command:     ParachainCommand(relay, para, idx, peering),
				Environment: overlay(para.Env, node.Env),
				Ulimits:     ulimits,
			})
			c.Volumes = append(c.Volumes, name)
		}
	}
	return c, nil
}

// RelayServiceName is relaychain-<kebab-cased node name>.
func RelayServiceName(node string) string {
	return "relaychain-" + identity.KebabCase(node)
}

// ParachainServiceName is parachain-<id>-<node index>.
func ParachainServiceName(id, idx int) string {
	return "parachain-" + strconv.Itoa(id) + "-" + strconv.Itoa(idx)
}

// RelayCommand is the argument list of a relay chain validator.
func RelayCommand(relay *config.RelayChain, node config.Node) []string {
	cmd := []string{
		"--base-path=" + relayDataPath,
		"--chain=/app/" + relay.ChainFile(),
		"--ws-external",
		"--rpc-external",
		"--rpc-cors=all",
		"--name=" + node.Name,
		"--validator",
		"--" + strings.ToLower(node.Name),
	}
	cmd = append(cmd, relay.Flags...)
	return append(cmd, node.Flags...)
}

// ParachainCommand is the argument list of collator idx of para. peering is
// either the --node-key or the --bootnodes flag. Arguments after "--" go to
// the embedded relay chain node.
func ParachainCommand(relay *config.RelayChain, para *config.Parachain, idx int, peering string) []string {
	node := para.Nodes[idx]
	cmd := []string{
		"--base-path=" + para.DataPath(),
		"--chain=/app/" + para.ChainFile(),
		"--ws-external",
		"--rpc-external",
		"--rpc-cors=all",
		"--name=" + ParachainServiceName(para.ID, idx),
		"--collator",
		"--parachain-id=" + strconv.Itoa(para.ID),
	}
	cmd = append(cmd, para.Flags...)
	cmd = append(cmd, node.Flags...)
	cmd = append(cmd,
		peering,
		"--listen-addr="+listenAddr.String(),
		"--",
		"--chain=/app/"+relay.ChainFile(),
	)
	cmd = append(cmd, para.RelaychainFlags...)
	return append(cmd, node.RelaychainFlags...)
}

// Bootnode is the address of a parachain's first node on the compose
// network.
func Bootnode(id int, peerID string) (multiaddr.Multiaddr, error) {
	addr, err := multiaddr.NewMultiaddr(fmt.Sprintf("/dns/%s/tcp/30333/p2p/%s", ParachainServiceName(id, 0), peerID))
	if err != nil {
		return nil, fmt.Errorf("bootnode of parachain %d: %w", id, err)
	}
	return addr, nil
}

// overlay returns base with top applied on top of it.
func overlay(base, top map[string]string) map[string]string {
	env := make(map[string]string, len(base)+len(top))
	maps.Copy(env, base)
	maps.Copy(env, top)
	return env
}
