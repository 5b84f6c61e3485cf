package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseWorker_StatsTracking(t *testing.T) {
	w := NewBaseWorker(DefaultWorkerConfig("stats-worker"))

	start := w.recordJobStart()
	w.recordJobSuccess(start)
	w.recordJobSuccess(start)
	w.recordJobFailure(start)

	stats := w.Stats()
	assert.Equal(t, "stats-worker", stats.WorkerName)
	assert.Equal(t, int64(3), stats.JobsProcessed)
	assert.Equal(t, int64(2), stats.JobsSucceeded)
	assert.Equal(t, int64(1), stats.JobsFailed)
	assert.False(t, stats.LastJobTime.IsZero())
}

func TestBaseWorker_RunningState(t *testing.T) {
	w := NewBaseWorker(DefaultWorkerConfig("run-worker"))

	assert.False(t, w.IsRunning())
	w.setRunning(true)
	assert.True(t, w.IsRunning())
	assert.False(t, w.Stats().Uptime < 0)
	w.setRunning(false)
	assert.False(t, w.IsRunning())
}

func TestDefaultWorkerConfig(t *testing.T) {
	cfg := DefaultWorkerConfig("w")

	assert.Equal(t, "w", cfg.WorkerName)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.True(t, cfg.EnableRecovery)
}

type noopWorker struct {
	*BaseWorker
	started bool
	stopped bool
}

func (w *noopWorker) Start(ctx context.Context) error {
	w.started = true
	w.setRunning(true)
	return nil
}

func (w *noopWorker) Stop(ctx context.Context) error {
	w.stopped = true
	w.setRunning(false)
	return nil
}

func TestWorkerPool(t *testing.T) {
	pool := NewWorkerPool()
	w1 := &noopWorker{BaseWorker: NewBaseWorker(DefaultWorkerConfig("w1"))}
	w2 := &noopWorker{BaseWorker: NewBaseWorker(DefaultWorkerConfig("w2"))}

	pool.AddWorker(w1)
	pool.AddWorker(w2)
	assert.Equal(t, 2, pool.Count())

	require.NoError(t, pool.StartAll(context.Background()))
	assert.True(t, w1.started)
	assert.True(t, w2.started)

	assert.Equal(t, w1, pool.GetWorker("w1"))
	assert.Nil(t, pool.GetWorker("missing"))

	stats := pool.GetAllStats()
	require.Len(t, stats, 2)

	require.NoError(t, pool.StopAll(context.Background()))
	assert.True(t, w1.stopped)
	assert.True(t, w2.stopped)
}

func TestWorkerError(t *testing.T) {
	err := NewWorkerError("w1", "process", assert.AnError, "")
	assert.Contains(t, err.Error(), "w1:process")
	assert.ErrorIs(t, err, assert.AnError)

	withMsg := NewWorkerError("w1", "process", nil, "custom message")
	assert.Equal(t, "custom message", withMsg.Error())
}

func TestWorkerPanicError(t *testing.T) {
	assert.Contains(t, (&WorkerPanicError{Panic: "boom"}).Error(), "boom")
	assert.Contains(t, (&WorkerPanicError{Panic: assert.AnError}).Error(), assert.AnError.Error())
	assert.Contains(t, (&WorkerPanicError{Panic: 42}).Error(), "unknown panic")
}
