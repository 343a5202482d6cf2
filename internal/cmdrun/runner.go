package cmdrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Command describes one external program invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := append([]string{c.Binary}, c.Args...)
	return strings.Join(parts, " ")
}

// Result captures the outcome of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes external programs. Implementations return a non-nil error
// when the process could not start or exited non-zero; the Result is still
// populated with whatever output was captured.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// ExitError reports a non-zero exit together with the captured diagnostics.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	detail := Tail(e.Stderr, 8)
	if detail == "" {
		return fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Binary, e.ExitCode, detail)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ErrBinaryNotFound is returned when the executable is absent from PATH.
var ErrBinaryNotFound = errors.New("executable not found")

// ExecRunner runs commands through os/exec. Children are placed in their own
// process group so cancellation terminates helpers they spawn.
type ExecRunner struct {
	// GracePeriod bounds how long a cancelled process may take to exit after
	// SIGTERM before it is killed. Zero means five seconds.
	GracePeriod time.Duration
}

// Run executes cmd and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if strings.TrimSpace(cmd.Binary) == "" {
		return Result{ExitCode: -1}, errors.New("cmdrun: binary is required")
	}
	grace := r.GracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running configured tools is the purpose of this package
	c.Dir = cmd.Dir
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace

	start := time.Now()
	err := c.Run()
	result := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}
	if err == nil {
		return result, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return result, fmt.Errorf("%w: %s", ErrBinaryNotFound, cmd.Binary)
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("%s: killed by context: %w", cmd.Binary, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &ExitError{
			Binary:   cmd.Binary,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
			Err:      err,
		}
	}
	return result, fmt.Errorf("run %s: %w", cmd.Binary, err)
}

// Tail returns the last n non-empty lines of output joined by " | ".
func Tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, " | ")
}
