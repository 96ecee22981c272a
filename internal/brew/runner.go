package brew

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes brew subcommands.
type Runner interface {
	// Output runs brew and returns its stdout.
	Output(ctx context.Context, args ...string) ([]byte, error)
	// CombinedOutput runs brew and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, args ...string) ([]byte, error)
}

// ExitError reports a brew invocation that ran but exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("brew %s exited with status %d", strings.Join(e.Args, " "), e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// ExecRunner runs the real brew executable.
type ExecRunner struct {
	// Path to brew; defaults to "brew" on PATH.
	Path string
}

// Output runs brew and returns its stdout.
func (r ExecRunner) Output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := r.command(ctx, args)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	return out, r.wrap(ctx, args, err, stderr.Bytes())
}

// CombinedOutput runs brew and returns stdout and stderr interleaved.
func (r ExecRunner) CombinedOutput(ctx context.Context, args ...string) ([]byte, error) {
	cmd := r.command(ctx, args)
	out, err := cmd.CombinedOutput()
	return out, r.wrap(ctx, args, err, nil)
}

func (r ExecRunner) command(ctx context.Context, args []string) *exec.Cmd {
	path := r.Path
	if path == "" {
		path = "brew"
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = append(os.Environ(),
		"HOMEBREW_NO_AUTO_UPDATE=1",
		"HOMEBREW_NO_ENV_HINTS=1",
		"HOMEBREW_NO_COLOR=1",
	)
	return cmd
}

func (r ExecRunner) wrap(ctx context.Context, args []string, err error, stderr []byte) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("brew %s: %w", strings.Join(args, " "), ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrBrewMissing, err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Args:   args,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(string(stderr)),
		}
	}
	return fmt.Errorf("brew %s failed: %w", strings.Join(args, " "), err)
}
