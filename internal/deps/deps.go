package deps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidscribe/internal/cmdrun"
)

// Requirement defines an external program vidscribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// VersionArgs are passed when probing; the program only has to start.
	VersionArgs []string
	// NoVersion marks probes whose output is not a version string.
	NoVersion bool
	Optional  bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// CheckBinaries probes each requirement by invoking it through runner. A
// program that starts counts as available even if it exits non-zero; only
// invocability is checked, not behaviour.
func CheckBinaries(ctx context.Context, runner cmdrun.Runner, requirements []Requirement) []Status {
	if runner == nil {
		runner = cmdrun.ExecRunner{}
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}

		res, err := runner.Run(ctx, cmdrun.Command{Binary: cmd, Args: req.VersionArgs})
		var exitErr *cmdrun.ExitError
		switch {
		case err == nil:
			status.Available = true
		case errors.As(err, &exitErr):
			status.Available = true
			status.Detail = fmt.Sprintf("exited with code %d", exitErr.ExitCode)
		case errors.Is(err, cmdrun.ErrBinaryNotFound):
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		default:
			status.Detail = err.Error()
		}
		if status.Available && !req.NoVersion {
			status.Version = firstLine(res.Stdout, res.Stderr)
		}
		results = append(results, status)
	}
	return results
}

func firstLine(streams ...[]byte) string {
	for _, stream := range streams {
		for _, line := range strings.Split(string(stream), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
