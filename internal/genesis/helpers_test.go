package genesis_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"paralaunch/internal/genesis"
)

// loadSpec parses the named file of a txtar archive under testdata.
func loadSpec(t *testing.T, archive, name string) *genesis.Node {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", archive))
	require.NoError(t, err)
	for _, f := range ar.Files {
		if f.Name == name {
			spec, err := genesis.Parse(f.Data)
			require.NoError(t, err)
			return spec
		}
	}
	t.Fatalf("%s: no file %q", archive, name)
	return nil
}

func mustParse(t *testing.T, s string) *genesis.Node {
	t.Helper()
	n, err := genesis.Parse([]byte(s))
	require.NoError(t, err)
	return n
}

func compact(t *testing.T, n *genesis.Node) string {
	t.Helper()
	out, err := genesis.MarshalCompact(n)
	require.NoError(t, err)
	return string(out)
}
