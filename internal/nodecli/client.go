package nodecli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"paralaunch/internal/identity"
)

// DefaultCLI is the container CLI used when none is configured.
const DefaultCLI = "docker"

// appMount is where the output directory is mounted for export commands.
const appMount = "/app"

var (
	errEmptyOutput  = errors.New("command produced no output")
	errEmptyNodeKey = errors.New("node key generation produced no key or peer id")
)

// Client invokes node binary subcommands through a container CLI.
type Client struct {
	cli    string
	runner Runner
	log    *zap.Logger
}

type Option func(*Client)

// WithCLI selects the container CLI binary, docker by default.
func WithCLI(cli string) Option {
	return func(c *Client) {
		if cli != "" {
			c.cli = cli
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

func New(log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		cli:    DefaultCLI,
		runner: ExecRunner{},
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) run(ctx context.Context, args ...string) (Result, error) {
	c.log.Info("running command", zap.String("cmd", commandLine(c.cli, args)))
	return c.runner.Run(ctx, c.cli, args...)
}

// BuildSpec returns the human readable chain spec of chain with the default
// boot nodes left out.
func (c *Client) BuildSpec(ctx context.Context, image, chain string) ([]byte, error) {
	res, err := c.run(ctx, "run", "--rm", image,
		"build-spec", "--chain="+chain, "--disable-default-bootnode")
	if err != nil {
		return nil, fmt.Errorf("build spec %s: %w", chain, err)
	}
	if len(bytes.TrimSpace(res.Stdout)) == 0 {
		return nil, fmt.Errorf("build spec %s: %w", chain, errEmptyOutput)
	}
	return res.Stdout, nil
}

// BuildRawSpec converts a patched chain spec to its raw form. The JSON is
// written to a temporary file that is mounted at /<chain>.json.
func (c *Client) BuildRawSpec(ctx context.Context, image, chain string, spec []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "paralaunch-")
	if err != nil {
		return nil, fmt.Errorf("raw spec %s: %w", chain, err)
	}
	defer os.RemoveAll(dir)

	name := chain + ".json"
	tmp := filepath.Join(dir, name)
	if err := os.WriteFile(tmp, spec, 0o644); err != nil {
		return nil, fmt.Errorf("raw spec %s: %w", chain, err)
	}

	res, err := c.run(ctx, "run", "--rm", "-v", tmp+":/"+name, image,
		"build-spec", "--raw", "--chain=/"+name, "--disable-default-bootnode")
	if err != nil {
		return nil, fmt.Errorf("raw spec %s: %w", chain, err)
	}
	if len(bytes.TrimSpace(res.Stdout)) == 0 {
		return nil, fmt.Errorf("raw spec %s: %w", chain, errEmptyOutput)
	}
	return res.Stdout, nil
}

// ExportGenesisWasm exports the validation code of a parachain whose spec
// file is chainFile inside output.
func (c *Client) ExportGenesisWasm(ctx context.Context, image, output, chainFile string) (string, error) {
	return c.export(ctx, image, output, "export-genesis-wasm", "--chain="+appMount+"/"+chainFile)
}

// ExportGenesisState exports the genesis head of parachain id.
func (c *Client) ExportGenesisState(ctx context.Context, image, output, chainFile string, id int) (string, error) {
	return c.export(ctx, image, output, "export-genesis-state",
		"--chain="+appMount+"/"+chainFile, "--parachain-id="+strconv.Itoa(id))
}

func (c *Client) export(ctx context.Context, image, output, subcommand string, args ...string) (string, error) {
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("%s: %w", subcommand, err)
	}
	cmd := append([]string{"run", "-v", abs + ":" + appMount, "--rm", image, subcommand}, args...)
	res, err := c.run(ctx, cmd...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", subcommand, err)
	}
	out := strings.TrimSpace(string(res.Stdout))
	if out == "" {
		return "", fmt.Errorf("%s: %w", subcommand, errEmptyOutput)
	}
	return out, nil
}

// GenerateNodeKey creates a node key. The key is printed on stdout and the
// peer id on stderr.
func (c *Client) GenerateNodeKey(ctx context.Context, image string) (identity.NodeKey, error) {
	res, err := c.run(ctx, "run", "--rm", image, "key", "generate-node-key")
	if err != nil {
		return identity.NodeKey{}, fmt.Errorf("generate node key: %w", err)
	}
	key := identity.NodeKey{
		Key:    strings.TrimSpace(string(res.Stdout)),
		PeerID: lastLine(res.Stderr),
	}
	if key.Key == "" || key.PeerID == "" {
		return identity.NodeKey{}, errEmptyNodeKey
	}
	return key, nil
}

// lastLine returns the last non-empty line, skipping any warnings a
// container runtime prints to stderr before the node's own output.
func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
