package workspace_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paralaunch/internal/workspace"
)

// answers replies to each question in turn and records what was asked.
type answers struct {
	replies []bool
	asked   []string
}

func (a *answers) Confirm(q string) (bool, error) {
	a.asked = append(a.asked, q)
	if len(a.replies) == 0 {
		return false, errors.New("unexpected question")
	}
	r := a.replies[0]
	a.replies = a.replies[1:]
	return r, nil
}

func setup(t *testing.T, existing ...string) workspace.Dir {
	t.Helper()
	d := workspace.Dir{Path: filepath.Join(t.TempDir(), "output")}
	require.NoError(t, d.Ensure())
	for _, name := range existing {
		_, err := d.WriteFile(name, []byte("old"))
		require.NoError(t, err)
	}
	return d
}

func TestCheckOverwriteAsksOnlyForExisting(t *testing.T) {
	d := setup(t, "b.json", "c.json")
	a := &answers{replies: []bool{true, true}}

	require.NoError(t, d.CheckOverwrite([]string{"a.json", "b.json", "c.json"}, false, a))
	require.Len(t, a.asked, 2)
	assert.Contains(t, a.asked[0], filepath.Join(d.Path, "b.json"))
	assert.Contains(t, a.asked[1], filepath.Join(d.Path, "c.json"))
}

func TestCheckOverwriteDecline(t *testing.T) {
	d := setup(t, "b.json", "c.json")
	a := &answers{replies: []bool{false}}

	err := d.CheckOverwrite([]string{"b.json", "c.json"}, false, a)
	require.ErrorIs(t, err, workspace.ErrAborted)
	assert.Len(t, a.asked, 1)
}

func TestCheckOverwriteYes(t *testing.T) {
	d := setup(t, "b.json")
	a := &answers{}
	require.NoError(t, d.CheckOverwrite([]string{"b.json"}, true, a))
	assert.Empty(t, a.asked)
}

func TestCheckOverwritePromptError(t *testing.T) {
	d := setup(t, "b.json")
	boom := errors.New("no tty")
	err := d.CheckOverwrite([]string{"b.json"}, false, workspace.ConfirmFunc(func(string) (bool, error) {
		return false, boom
	}))
	require.ErrorIs(t, err, boom)
}

func TestWriteFile(t *testing.T) {
	d := setup(t)
	path, err := d.WriteFile("x.json", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Path, "x.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestExistingWithoutDirectory(t *testing.T) {
	d := workspace.Dir{Path: filepath.Join(t.TempDir(), "missing")}
	found, err := d.Existing([]string{"a"})
	require.NoError(t, err)
	assert.Empty(t, found)
}
