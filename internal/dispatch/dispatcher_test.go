package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikarpovich/nsbot/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDispatcher_RunsSubmittedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(testLogger(), 8)
	d.Start(ctx)

	done := make(chan struct{})
	require.NoError(t, d.Submit("test", func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

func TestDispatcher_TasksRunInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(testLogger(), 8)
	d.Start(ctx)

	var order []int
	done := make(chan struct{})
	for i := 1; i <= 3; i++ {
		i := i
		require.NoError(t, d.Submit("test", func(ctx context.Context) error {
			order = append(order, i) // single worker, no race
			if i == 3 {
				close(done)
			}
			return nil
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDispatcher_FailureDoesNotHaltWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(testLogger(), 8)
	d.Start(ctx)

	require.NoError(t, d.Submit("fails", func(ctx context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, d.Submit("panics", func(ctx context.Context) error {
		panic("boom")
	}))

	done := make(chan struct{})
	require.NoError(t, d.Submit("after", func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker halted after a failing task")
	}
}

func TestDispatcher_SubmitNeverBlocks(t *testing.T) {
	// worker not started: the queue only drains if Submit blocked
	d := New(testLogger(), 1)

	require.NoError(t, d.Submit("first", func(ctx context.Context) error { return nil }))

	err := d.Submit("second", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	d := New(testLogger(), 8)
	d.Start(ctx)

	cancel()
	<-d.Done()

	err := d.Submit("late", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDispatcher_SingleWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(testLogger(), 8)
	d.Start(ctx)

	var concurrent, max int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		last := i == 4
		require.NoError(t, d.Submit("test", func(ctx context.Context) error {
			n := atomic.AddInt32(&concurrent, 1)
			if n > atomic.LoadInt32(&max) {
				atomic.StoreInt32(&max, n)
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&concurrent, -1)
			if last {
				close(done)
			}
			return nil
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&max), "tasks must not overlap")
}
