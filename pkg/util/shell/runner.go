package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/portablesource/portablesource/pkg/util/console"
)

// Runner executes external tools. Installation steps, device listing and git all go through it
// so they can be replaced in tests.
type Runner interface {
	// Run executes name with args in dir and streams output to the runner's writers.
	Run(ctx context.Context, dir string, name string, args ...string) error
	// Output executes name with args in dir and returns its stdout.
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// ExitError is returned when a command ran but did not succeed.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec. Nil writers discard the output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the inherited environment.
	Env []string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := r.command(ctx, dir, name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}
	return wrapError(cmd, cmd.Run(), stderr.String())
}

func (r *ExecRunner) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := r.command(ctx, dir, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	return out, wrapError(cmd, err, stderr.String())
}

func (r *ExecRunner) command(ctx context.Context, dir string, name string, args ...string) *exec.Cmd {
	console.Debugf("$ %s", Join(name, args...))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	return cmd
}

func wrapError(cmd *exec.Cmd, err error, stderr string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command:  Join(cmd.Path, cmd.Args[1:]...),
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr),
			Err:      err,
		}
	}
	return fmt.Errorf("Failed to run %s: %w", cmd.Path, err)
}

// Join renders a command line for logs, quoting arguments that contain spaces.
func Join(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		if strings.ContainsAny(s, " \t") {
			s = `"` + s + `"`
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
