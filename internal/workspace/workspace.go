// Package workspace manages the output directory the generated genesis
// files, Dockerfiles and compose file are written to.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAborted is returned when the operator declines to overwrite a file.
var ErrAborted = errors.New("aborted by user")

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// Dir is an output directory.
type Dir struct {
	Path string
}

// File returns the location of name inside the directory.
func (d Dir) File(name string) string {
	return filepath.Join(d.Path, name)
}

// Ensure creates the directory and its parents.
func (d Dir) Ensure() error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// Existing returns the names, in order, that already exist in the directory.
func (d Dir) Existing(names []string) ([]string, error) {
	var found []string
	for _, name := range names {
		_, err := os.Stat(d.File(name))
		switch {
		case err == nil:
			found = append(found, name)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("stat %s: %w", d.File(name), err)
		}
	}
	return found, nil
}

// CheckOverwrite asks once for every name that already exists. With yes set
// nothing is asked. The first declined question returns ErrAborted.
func (d Dir) CheckOverwrite(names []string, yes bool, c Confirmer) error {
	if yes {
		return nil
	}
	existing, err := d.Existing(names)
	if err != nil {
		return err
	}
	for _, name := range existing {
		ok, err := c.Confirm(fmt.Sprintf("%s already exists. Overwrite? (y/N)", d.File(name)))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}
	return nil
}

// WriteFile writes data to name inside the directory and returns the path
// written.
func (d Dir) WriteFile(name string, data []byte) (string, error) {
	path := d.File(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
