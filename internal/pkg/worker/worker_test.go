package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPool(maxRetry int) *WorkerPool {
	p := NewWorkerPool(2, 8, maxRetry, zap.NewNop())
	p.backoff = time.Millisecond
	return p
}

func TestWorkerPoolRunsTasks(t *testing.T) {
	p := newTestPool(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var wg sync.WaitGroup
	var done int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.AddTask(Task{Name: "ok", Run: func(context.Context) error {
			atomic.AddInt32(&done, 1)
			wg.Done()
			return nil
		}}))
	}
	wg.Wait()
	assert.Equal(t, int32(5), atomic.LoadInt32(&done))

	cancel()
	p.Wait()
}

func TestWorkerPoolRetriesThenSucceeds(t *testing.T) {
	p := newTestPool(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var attempts int32
	succeeded := make(chan struct{})
	require.NoError(t, p.AddTask(Task{Name: "flaky", Run: func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("smtp unavailable")
		}
		close(succeeded)
		return nil
	}}))

	select {
	case <-succeeded:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not succeed after retries")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestWorkerPoolGivesUpAfterMaxRetry(t *testing.T) {
	p := newTestPool(2)
	failed := make(chan Task, 1)
	p.OnFailed = func(task Task, err error) { failed <- task }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var attempts int32
	require.NoError(t, p.AddTask(Task{Name: "broken", Run: func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("always")
	}}))

	select {
	case task := <-failed:
		assert.Equal(t, "broken", task.Name)
		assert.Equal(t, 2, task.Retry)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not reported as failed")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestAddTaskQueueFull(t *testing.T) {
	p := NewWorkerPool(1, 1, 0, zap.NewNop())
	noop := func(context.Context) error { return nil }

	// 未启动 worker，队列只能容纳一个任务
	require.NoError(t, p.AddTask(Task{Name: "a", Run: noop}))
	assert.ErrorIs(t, p.AddTask(Task{Name: "b", Run: noop}), ErrQueueFull)
}
