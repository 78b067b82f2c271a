package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolFunctionality(t *testing.T) {
	pool := NewPool(4)
	pool.Start()
	defer pool.Stop()

	var (
		counter atomic.Int64
		wg      sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.True(t, pool.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(100), counter.Load())

	stats := pool.Stats()
	assert.Equal(t, 4, stats.Workers)
	assert.True(t, stats.Running)
	assert.Equal(t, uint64(100), stats.TasksTotal)
}

func TestPoolStopRunsQueuedTasks(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	tasks := make([]Task, 5)
	var ran atomic.Int64
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			ran.Add(1)
			return nil
		}
	}

	done := make(chan error, 1)
	go func() { done <- RunAll(context.Background(), pool, tasks) }()

	// Queue the tasks behind the blocked worker, then stop the pool.
	require.Eventually(t, func() bool { return pool.Stats().QueueLen == len(tasks) }, time.Second, time.Millisecond)
	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()
	close(release)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunAll did not return after Stop")
	}
	<-stopped
	assert.Equal(t, int64(5), ran.Load())
	assert.Equal(t, uint64(6), pool.Stats().TasksDone)
	assert.False(t, pool.Submit(func() {}))
}

func TestPoolRejectsWhenStopped(t *testing.T) {
	pool := NewPool(1)
	assert.False(t, pool.Submit(func() {}), "not started")

	pool.Start()
	pool.Stop()
	pool.Stop()
	assert.False(t, pool.Submit(func() {}))
	assert.False(t, pool.Stats().Running)
}

func TestRunAllCollectsEveryError(t *testing.T) {
	pool := NewPool(3)
	pool.Start()
	defer pool.Stop()

	var ran atomic.Int64
	boom := errors.New("boom")
	tasks := make([]Task, 10)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) error {
			ran.Add(1)
			if i%4 == 0 {
				return fmt.Errorf("task %d: %w", i, boom)
			}
			return nil
		}
	}

	err := RunAll(context.Background(), pool, tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, int64(10), ran.Load(), "failures do not short-circuit")
	assert.Contains(t, err.Error(), "task 0")
	assert.Contains(t, err.Error(), "task 4")
	assert.Contains(t, err.Error(), "task 8")
}

func TestRunAllWithoutPool(t *testing.T) {
	var ran atomic.Int64
	tasks := []Task{
		func(context.Context) error { ran.Add(1); return nil },
		func(context.Context) error { ran.Add(1); return nil },
	}
	assert.NoError(t, RunAll(context.Background(), nil, tasks))
	assert.Equal(t, int64(2), ran.Load())
	assert.NoError(t, RunAll(context.Background(), nil, nil))
}

func TestRunAllPassesContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := RunAll(ctx, nil, []Task{func(ctx context.Context) error { return ctx.Err() }})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBatchProcessorFunctionality(t *testing.T) {
	var batches [][]int

	processor := NewBatchProcessor(5, func(items []int) error {
		batch := make([]int, len(items))
		copy(batch, items)
		batches = append(batches, batch)
		return nil
	})

	// 12 items: two full batches and a remainder of two
	for i := 0; i < 12; i++ {
		require.NoError(t, processor.Add(i))
	}
	require.NoError(t, processor.Flush())

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 5)
	assert.Len(t, batches[1], 5)
	assert.Equal(t, []int{10, 11}, batches[2])
	assert.Equal(t, 12, processor.Processed())
}

func TestBatchProcessorError(t *testing.T) {
	fail := errors.New("insert failed")
	calls := 0
	processor := NewBatchProcessor(2, func(items []string) error {
		calls++
		if calls == 2 {
			return fail
		}
		return nil
	})

	assert.NoError(t, processor.Add("a"))
	assert.NoError(t, processor.Add("b"))
	assert.NoError(t, processor.Add("c"))
	assert.ErrorIs(t, processor.Add("d"), fail)
	assert.Equal(t, 2, processor.Processed())
	assert.NoError(t, processor.Flush(), "failed batch is not retried")
}
