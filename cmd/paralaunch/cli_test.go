package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/tools/txtar"

	"paralaunch/internal/identity"
	"paralaunch/internal/launch"
	"paralaunch/internal/workspace"
)

// stubTool answers node binary calls from the chain specs in the archive.
type stubTool struct {
	specs map[string][]byte
	cli   string
}

func (s *stubTool) BuildSpec(_ context.Context, _, chain string) ([]byte, error) {
	spec, ok := s.specs[chain]
	if !ok {
		return nil, fmt.Errorf("unknown chain %s", chain)
	}
	return spec, nil
}

func (s *stubTool) BuildRawSpec(_ context.Context, _, _ string, spec []byte) ([]byte, error) {
	return spec, nil
}

func (s *stubTool) ExportGenesisWasm(context.Context, string, string, string) (string, error) {
	return "0x01", nil
}

func (s *stubTool) ExportGenesisState(context.Context, string, string, string, int) (string, error) {
	return "0x02", nil
}

func (s *stubTool) GenerateNodeKey(context.Context, string) (identity.NodeKey, error) {
	return identity.NodeKey{Key: "0xkey", PeerID: "12D3KooWEyoppNCUx8Yx66oV9fJnriXwCcXwDDUA2kj6vnc6iDEp"}, nil
}

type harness struct {
	app    *app
	dir    string
	tool   *stubTool
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	asked  []string
	answer bool
}

// newHarness extracts the archive into a temp dir and builds an app that
// uses the stub tool and records prompts.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ar, err := txtar.ParseFile("testdata/network.txtar")
	require.NoError(t, err)

	h := &harness{
		dir:    t.TempDir(),
		tool:   &stubTool{specs: make(map[string][]byte)},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	for _, f := range ar.Files {
		if strings.HasSuffix(f.Name, ".yml") {
			require.NoError(t, os.WriteFile(filepath.Join(h.dir, f.Name), f.Data, 0o644))
			continue
		}
		h.tool.specs[f.Name] = f.Data
	}
	h.app = &app{
		stdin:  strings.NewReader(""),
		stdout: h.stdout,
		stderr: h.stderr,
		newTool: func(cli string, _ *zap.Logger) launch.NodeTool {
			h.tool.cli = cli
			return h.tool
		},
		confirm: workspace.ConfirmFunc(func(q string) (bool, error) {
			h.asked = append(h.asked, q)
			return h.answer, nil
		}),
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.execute(context.Background(), args)
}

func (h *harness) path(name ...string) string {
	return filepath.Join(append([]string{h.dir}, name...)...)
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)
	out := h.path("output")

	code := h.run("generate", h.path("config.yml"), "-o", out, "--log-level", "error")
	require.Equal(t, 0, code, h.stderr.String())

	for _, name := range []string{
		"rococo-local.json",
		"dev-2000.json",
		"relaychain.Dockerfile",
		"parachain-2000.Dockerfile",
		"docker-compose.yml",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Contains(t, h.stdout.String(), "docker-compose.yml generated at "+filepath.Join(out, "docker-compose.yml"))
	assert.Equal(t, "docker", h.tool.cli)
	assert.Empty(t, h.asked)
}

func TestGenerateDeclineOverwrite(t *testing.T) {
	h := newHarness(t)
	out := h.path("output")
	require.Equal(t, 0, h.run("generate", h.path("config.yml"), "-o", out, "--log-level", "error"))

	h.answer = false
	code := h.run("generate", h.path("config.yml"), "-o", out, "--log-level", "error")
	assert.Equal(t, 0, code)
	assert.Len(t, h.asked, 1)
	assert.Contains(t, h.stdout.String(), "Bailing... Bye.")
}

func TestGenerateYesSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	out := h.path("output")
	require.Equal(t, 0, h.run("generate", h.path("config.yml"), "-o", out, "--log-level", "error"))
	require.Equal(t, 0, h.run("generate", h.path("config.yml"), "-o", out, "-y", "--log-level", "error"))
	assert.Empty(t, h.asked)
}

func TestGenerateFlagsFromEnvironment(t *testing.T) {
	h := newHarness(t)
	out := h.path("from-env")
	t.Setenv("PARALAUNCH_OUTPUT", out)
	t.Setenv("PARALAUNCH_CONTAINER_CLI", "podman")
	t.Setenv("PARALAUNCH_LOG_LEVEL", "error")

	require.Equal(t, 0, h.run("generate", h.path("config.yml")), h.stderr.String())
	assert.FileExists(t, filepath.Join(out, "docker-compose.yml"))
	assert.Equal(t, "podman", h.tool.cli)
}

func TestGenerateInvalidUlimit(t *testing.T) {
	h := newHarness(t)
	code := h.run("generate", h.path("config.yml"), "-o", h.path("output"), "--ulimit", "nofile")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "--ulimit")
}

func TestGenerateMissingConfig(t *testing.T) {
	h := newHarness(t)
	code := h.run("generate", h.path("nope.yml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "nope.yml")
}

func TestValidate(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("validate", h.path("config.yml")))
	assert.Equal(t, `relay chain rococo-local (parity/polkadot:latest)
  relaychain-alice
  relaychain-bob
parachain 2000 dev (para:latest)
  parachain-2000-0
3 services
`, h.stdout.String())
}

func TestValidateReportsMissingFields(t *testing.T) {
	h := newHarness(t)
	bad := h.path("bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("parachains:\n  - image: x\n"), 0o644))

	assert.Equal(t, 1, h.run("validate", bad))
	for _, field := range []string{"relaychain.chain", "relaychain.image", "parachains[0].id", "parachains[0].chain.base"} {
		assert.Contains(t, h.stderr.String(), field)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("version"))
	assert.Equal(t, cliVersion+"\n", h.stdout.String())
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run("launch"))
	assert.Contains(t, h.stderr.String(), "unknown command")
}
