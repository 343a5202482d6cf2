package staging

import (
	"fmt"
	"os"
	"sync"
)

// workspacePrefix marks directories created by NewWorkspace.
const workspacePrefix = "vidscribe-"

// Workspace is a scratch directory owned by one pipeline run. Close removes
// it; callers defer Close right after creation so every exit path cleans up.
type Workspace struct {
	dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates a fresh directory under parent (the OS temp dir when
// empty).
func NewWorkspace(parent string) (*Workspace, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, workspacePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace path.
func (w *Workspace) Dir() string { return w.dir }

// Close removes the workspace and everything in it. Safe to call repeatedly.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		w.err = os.RemoveAll(w.dir)
	})
	return w.err
}
