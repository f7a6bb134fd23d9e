// Package nodecli runs the chain node binary inside its container image to
// fetch chain specs, convert them to raw form, export parachain genesis
// artifacts and generate node keys.
package nodecli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the captured output of a finished command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes one command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// CommandError is returned when a command exits unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		cerr := &CommandError{
			Command:  commandLine(name, args),
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return res, cerr
	}
	return res, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
