package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/fermi/core"
)

func TestJob_Wait(t *testing.T) {
	bindings := core.NewBindings().Set("x", core.Uniform{Min: 1, Max: 1})
	job := Start(context.Background(), mustParse(t, "x * 3"), bindings, 100, WithSeed(1), WithLogger(quietLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := job.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Mean)

	select {
	case <-job.Done():
	default:
		t.Fatal("Done should be closed after Wait returns")
	}
}

func TestJob_SnapshotsBindings(t *testing.T) {
	bindings := core.NewBindings().Set("x", core.Uniform{Min: 2, Max: 2})
	job := Start(context.Background(), mustParse(t, "x"), bindings, 10, WithLogger(quietLogger()))
	bindings.Set("x", core.Uniform{Min: 7, Max: 7})

	result, err := job.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Mean)
}

func TestJob_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := Start(ctx, mustParse(t, "1"), nil, 10, WithLogger(quietLogger()))
	<-job.Done()
	result, err := job.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestJob_ReportsSimulationError(t *testing.T) {
	job := Start(context.Background(), mustParse(t, "1/0"), nil, 10, WithLogger(quietLogger()))
	_, err := job.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNoValidSamples)
}

func TestJob_WaitGivesUp(t *testing.T) {
	job := &Job{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := job.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
