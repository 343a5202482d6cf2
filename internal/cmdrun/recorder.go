package cmdrun

import (
	"context"
	"sync"
)

// Recorder is a scripted Runner for tests. Each call is matched against the
// handlers by binary name; unmatched binaries succeed with empty output.
type Recorder struct {
	mu       sync.Mutex
	handlers map[string]RunnerFunc
	calls    []Command
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{handlers: make(map[string]RunnerFunc)}
}

// Handle registers fn for commands whose Binary equals binary.
func (r *Recorder) Handle(binary string, fn RunnerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[binary] = fn
}

// Run records cmd and dispatches to the registered handler.
func (r *Recorder) Run(ctx context.Context, cmd Command) (Result, error) {
	r.mu.Lock()
	args := append([]string(nil), cmd.Args...)
	recorded := cmd
	recorded.Args = args
	r.calls = append(r.calls, recorded)
	fn := r.handlers[cmd.Binary]
	r.mu.Unlock()
	if fn == nil {
		return Result{}, nil
	}
	return fn(ctx, cmd)
}

// Calls returns a copy of every recorded command in order.
func (r *Recorder) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.calls...)
}

// Count returns how many times binary was invoked.
func (r *Recorder) Count(binary string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Binary == binary {
			n++
		}
	}
	return n
}
