// Package launch runs the generation pipeline: parachain genesis files, the
// patched relay chain genesis, Dockerfiles and the compose file.
package launch

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paralaunch/internal/config"
	"paralaunch/internal/genesis"
	"paralaunch/internal/identity"
	"paralaunch/internal/topology"
	"paralaunch/internal/workspace"
)

// ComposeFile is the name of the generated compose file.
const ComposeFile = "docker-compose.yml"

// NodeTool is the node binary, run in a chain's container image.
type NodeTool interface {
	BuildSpec(ctx context.Context, image, chain string) ([]byte, error)
	BuildRawSpec(ctx context.Context, image, chain string, spec []byte) ([]byte, error)
	ExportGenesisWasm(ctx context.Context, image, output, chainFile string) (string, error)
	ExportGenesisState(ctx context.Context, image, output, chainFile string, id int) (string, error)
	GenerateNodeKey(ctx context.Context, image string) (identity.NodeKey, error)
}

// Options control a run.
type Options struct {
	Output string
	// Yes overwrites existing files without asking.
	Yes bool
	// Parallelism bounds the parachains processed at once. Values below 1
	// mean one at a time.
	Parallelism int
	Ulimits     []*units.Ulimit
}

// Deps are the collaborators of a run.
type Deps struct {
	Tool    NodeTool
	Confirm workspace.Confirmer
	Log     *zap.Logger
}

// Result lists the files written.
type Result struct {
	ParachainGenesis []string
	RelayGenesis     string
	Dockerfiles      []string
	Compose          string
}

type run struct {
	net  *config.Network
	opts Options
	dir  workspace.Dir
	tool NodeTool
	log  *zap.Logger
}

// Generate writes every artifact of net into opts.Output. When the operator
// declines to overwrite an existing file it returns workspace.ErrAborted
// before anything is written or any command is run.
func Generate(ctx context.Context, net *config.Network, opts Options, deps Deps) (*Result, error) {
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &run{
		net:  net,
		opts: opts,
		dir:  workspace.Dir{Path: opts.Output},
		tool: deps.Tool,
		log:  log,
	}

	confirm := deps.Confirm
	if confirm == nil {
		confirm = workspace.ConfirmFunc(func(string) (bool, error) { return false, nil })
	}
	if err := r.dir.CheckOverwrite(Outputs(net), opts.Yes, confirm); err != nil {
		return nil, err
	}
	if err := r.dir.Ensure(); err != nil {
		return nil, err
	}

	res := &Result{}
	var err error
	if res.ParachainGenesis, err = r.parachainGenesis(ctx); err != nil {
		return nil, err
	}
	if res.RelayGenesis, err = r.relayGenesis(ctx); err != nil {
		return nil, err
	}
	if res.Dockerfiles, err = r.dockerfiles(); err != nil {
		return nil, err
	}
	if res.Compose, err = r.compose(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// Outputs is every file name Generate writes, in the order they are checked
// for overwriting.
func Outputs(net *config.Network) []string {
	names := []string{net.Relaychain.ChainFile(), ComposeFile}
	for i := range net.Parachains {
		names = append(names, net.Parachains[i].ChainFile())
	}
	for _, f := range topology.Dockerfiles(net) {
		names = append(names, f.Name)
	}
	return names
}

func (r *run) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.opts.Parallelism))
	return g, gctx
}

// parachainGenesis fetches, patches and writes the genesis of every
// parachain. Each parachain writes its own id-qualified file.
func (r *run) parachainGenesis(ctx context.Context) ([]string, error) {
	paths := make([]string, len(r.net.Parachains))
	g, gctx := r.group(ctx)
	for i := range r.net.Parachains {
		para := &r.net.Parachains[i]
		g.Go(func() error {
			path, err := r.writeParachainGenesis(gctx, para)
			if err != nil {
				return fmt.Errorf("parachain %d: %w", para.ID, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *run) writeParachainGenesis(ctx context.Context, para *config.Parachain) (string, error) {
	raw, err := r.tool.BuildSpec(ctx, para.Image, para.Chain.Base)
	if err != nil {
		return "", err
	}
	spec, err := genesis.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("chain spec of %s: %w", para.Chain.Base, err)
	}

	patch := genesis.ParachainPatch{ID: para.ID}
	if para.Chain.Sudo != "" {
		if patch.Sudo, err = identity.DeriveAddress(para.Chain.Sudo, identity.Sr25519); err != nil {
			return "", fmt.Errorf("sudo: %w", err)
		}
	}
	for _, c := range para.Chain.Collators {
		addr, err := identity.DeriveAddress(c, identity.Sr25519)
		if err != nil {
			return "", fmt.Errorf("collator %q: %w", c, err)
		}
		patch.Collators = append(patch.Collators, addr)
	}
	if err := genesis.PatchParachain(spec, patch); err != nil {
		return "", err
	}

	out, err := genesis.Marshal(spec)
	if err != nil {
		return "", err
	}
	path, err := r.dir.WriteFile(para.ChainFile(), out)
	if err != nil {
		return "", err
	}
	r.log.Info("parachain genesis generated", zap.Int("id", para.ID), zap.String("path", path))
	return path, nil
}

// relayGenesis patches the relay chain spec with the validators, overrides
// and exported parachains and writes its raw form.
func (r *run) relayGenesis(ctx context.Context) (string, error) {
	relay := &r.net.Relaychain
	raw, err := r.tool.BuildSpec(ctx, relay.Image, relay.Chain)
	if err != nil {
		return "", fmt.Errorf("relay chain: %w", err)
	}
	spec, err := genesis.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("relay chain spec of %s: %w", relay.Chain, err)
	}

	var patch genesis.RelayPatch
	for _, node := range relay.Nodes {
		id, err := identity.Relay(node.Name)
		if err != nil {
			return "", fmt.Errorf("validator %q: %w", node.Name, err)
		}
		patch.Validators = append(patch.Validators, id)
	}
	if relay.HasOverrides() {
		if patch.Overrides, err = genesis.FromYAML(&relay.RuntimeGenesisConfig); err != nil {
			return "", fmt.Errorf("relaychain.runtimeGenesisConfig: %w", err)
		}
	}
	if patch.Paras, err = r.exportParachains(ctx); err != nil {
		return "", err
	}
	if err := genesis.PatchRelay(spec, patch); err != nil {
		return "", fmt.Errorf("relay chain: %w", err)
	}

	patched, err := genesis.Marshal(spec)
	if err != nil {
		return "", err
	}
	rawSpec, err := r.tool.BuildRawSpec(ctx, relay.Image, relay.Chain, patched)
	if err != nil {
		return "", fmt.Errorf("relay chain: %w", err)
	}
	path, err := r.dir.WriteFile(relay.ChainFile(), rawSpec)
	if err != nil {
		return "", err
	}
	r.log.Info("relay chain genesis generated", zap.String("path", path))
	return path, nil
}

// exportParachains exports the genesis head and validation code of every
// parachain. Results keep configuration order.
func (r *run) exportParachains(ctx context.Context) ([]genesis.ParaGenesis, error) {
	paras := make([]genesis.ParaGenesis, len(r.net.Parachains))
	g, gctx := r.group(ctx)
	for i := range r.net.Parachains {
		para := &r.net.Parachains[i]
		g.Go(func() error {
			wasm, err := r.tool.ExportGenesisWasm(gctx, para.Image, r.opts.Output, para.ChainFile())
			if err != nil {
				return fmt.Errorf("parachain %d: %w", para.ID, err)
			}
			state, err := r.tool.ExportGenesisState(gctx, para.Image, r.opts.Output, para.ChainFile(), para.ID)
			if err != nil {
				return fmt.Errorf("parachain %d: %w", para.ID, err)
			}
			paras[i] = genesis.ParaGenesis{
				ID:             para.ID,
				Head:           state,
				ValidationCode: wasm,
				Parachain:      para.Parachain,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paras, nil
}

func (r *run) dockerfiles() ([]string, error) {
	var paths []string
	for _, f := range topology.Dockerfiles(r.net) {
		path, err := r.dir.WriteFile(f.Name, f.Content)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// compose generates one node key per parachain, in configuration order, and
// writes the compose file.
func (r *run) compose(ctx context.Context) (string, error) {
	keys := make(map[int]identity.NodeKey)
	for _, para := range r.net.Parachains {
		if len(para.Nodes) == 0 {
			continue
		}
		key, err := r.tool.GenerateNodeKey(ctx, para.Image)
		if err != nil {
			return "", fmt.Errorf("parachain %d: %w", para.ID, err)
		}
		keys[para.ID] = key
	}

	ulimits := r.opts.Ulimits
	if ulimits == nil {
		ulimits = topology.DefaultUlimits()
	}
	c, err := topology.Assemble(r.net, topology.Input{NodeKeys: keys, Ulimits: ulimits})
	if err != nil {
		return "", err
	}
	out, err := c.Encode()
	if err != nil {
		return "", err
	}
	path, err := r.dir.WriteFile(ComposeFile, out)
	if err != nil {
		return "", err
	}
	r.log.Info("compose file generated", zap.String("path", path), zap.Int("services", len(c.Services)))
	return path, nil
}
