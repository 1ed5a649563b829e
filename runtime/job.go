package runtime

import (
	"context"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/decl"
)

// Job is a simulation running on its own goroutine. The result is only
// visible once the whole run has finished.
type Job struct {
	done   chan struct{}
	result *SimulationResult
	err    error
}

// Start runs Simulate in the background. The bindings are copied so the
// caller may keep editing its own. Simulate itself is not interruptible: a
// cancelled ctx only prevents a run that has not started yet.
func Start(ctx context.Context, expr decl.Expr, bindings *core.Bindings, n int, opts ...Option) *Job {
	j := &Job{done: make(chan struct{})}
	snapshot := bindings.Sync(bindings.Names())
	go func() {
		defer close(j.done)
		if err := ctx.Err(); err != nil {
			j.err = err
			return
		}
		j.result, j.err = Simulate(expr, snapshot, n, opts...)
	}()
	return j
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx is done, whichever is first.
func (j *Job) Wait(ctx context.Context) (*SimulationResult, error) {
	select {
	case <-j.done:
		return j.result, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
