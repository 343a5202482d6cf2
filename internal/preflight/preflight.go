package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"vidscribe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Path   string
	Passed bool
	Detail string
}

// RunAll checks every directory named by cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Models directory", cfg.Paths.ModelsDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// CheckDirectoryAccess verifies path is a directory the process can list and
// write.
func CheckDirectoryAccess(name, path string) Result {
	result := Result{Name: name, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Detail = "does not exist"
			return result
		}
		result.Detail = fmt.Sprintf("stat: %v", err)
		return result
	}
	if !info.IsDir() {
		result.Detail = "is not a directory"
		return result
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		result.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return result
	}
	result.Passed = true
	result.Detail = "read/write ok"
	return result
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
