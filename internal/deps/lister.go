package deps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// DefaultListCommand prints the dynamic dependencies of an executable
const DefaultListCommand = "ldd"

// Lister returns the textual dependency listing of an executable
type Lister interface {
	List(ctx context.Context, executable string) (string, error)
}

// CommandLister runs an ldd-compatible command
type CommandLister struct {
	Command string
	Args    []string
}

// NewCommandLister creates a lister for command, falling back to ldd
func NewCommandLister(command string, args ...string) *CommandLister {
	if command == "" {
		command = DefaultListCommand
	}
	return &CommandLister{Command: command, Args: args}
}

// List runs the command against executable and returns its stdout.
// A non-zero exit status is not an error: ldd exits 1 for static binaries
// and prints nothing that would match.
func (l *CommandLister) List(ctx context.Context, executable string) (string, error) {
	args := append(append([]string{}, l.Args...), executable)
	cmd := exec.CommandContext(ctx, l.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return stdout.String(), nil
		}
		if msg := stderr.String(); msg != "" {
			return "", fmt.Errorf("%s: %w\n%s", l.Command, err, msg)
		}
		return "", fmt.Errorf("%s: %w", l.Command, err)
	}
	return stdout.String(), nil
}
