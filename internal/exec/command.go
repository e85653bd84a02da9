// Package exec provides abstractions for executing external commands.
package exec

//go:generate mockgen -source=command.go -destination=command_mock.go -package=exec

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// CommandResult contains the result of a command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r *CommandResult) Success() bool {
	return r != nil && r.ExitCode == 0
}

// CommandRunner executes external commands and waits for them to finish.
type CommandRunner interface {
	// Run executes a command and returns the result. A non-zero exit status
	// is reported through CommandResult.ExitCode together with an error.
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)

	// RunWithTimeout executes a command with a specific timeout.
	RunWithTimeout(timeout time.Duration, name string, args ...string) (*CommandResult, error)
}

type commandRunner struct {
	defaultTimeout time.Duration
}

// NewCommandRunner creates a new CommandRunner. A positive defaultTimeout
// bounds every Run call in addition to the caller's context.
func NewCommandRunner(defaultTimeout time.Duration) CommandRunner {
	return &commandRunner{defaultTimeout: defaultTimeout}
}

// Run executes a command and returns the result.
func (r *commandRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	if r.defaultTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.defaultTimeout)
		defer cancel()
	}

	//nolint:gosec // G204: the command comes from user configuration
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result, errors.Wrapf(err, "%s exited with status %d", name, result.ExitCode)
	}

	return result, errors.Wrapf(err, "executing %s", name)
}

// RunWithTimeout executes a command with a specific timeout.
func (r *commandRunner) RunWithTimeout(
	timeout time.Duration,
	name string,
	args ...string,
) (*CommandResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return r.Run(ctx, name, args...)
}
