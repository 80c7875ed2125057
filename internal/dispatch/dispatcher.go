// Package dispatch decouples message handlers from slow portal calls: a
// bounded task queue consumed by exactly one background worker goroutine.
// Handlers enqueue and return; results reach the user from inside the task.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ikarpovich/nsbot/internal/logging"
)

var (
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	// Submit never blocks the calling goroutine.
	ErrQueueFull = errors.New("task queue full")

	// ErrStopped is returned by Submit after the dispatcher's context is done.
	ErrStopped = errors.New("dispatcher stopped")
)

// TaskFunc is one unit of background work. Implementations report their own
// results to the user; the returned error is only logged.
type TaskFunc func(ctx context.Context) error

type task struct {
	id   uuid.UUID
	name string
	fn   TaskFunc
}

// Dispatcher owns the single background worker. Create with New, start with
// Start, and never create a second one for the process.
type Dispatcher struct {
	log   logging.Logger
	tasks chan task
	ctx   context.Context
	done  chan struct{}
}

// New returns a Dispatcher with a queue of the given capacity.
func New(log logging.Logger, queueSize int) *Dispatcher {
	return &Dispatcher{
		log:   log.With("component", "dispatch"),
		tasks: make(chan task, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine. The worker runs queued tasks one at a
// time until ctx is cancelled. A task failure or panic never halts the
// worker; subsequent tasks still run.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	go func() {
		defer close(d.done)
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-d.tasks:
				d.run(ctx, t)
			}
		}
	}()
}

// Submit enqueues a task. It never blocks: when the queue is full it returns
// ErrQueueFull and the caller reports the condition to the user.
func (d *Dispatcher) Submit(name string, fn TaskFunc) error {
	if d.ctx != nil && d.ctx.Err() != nil {
		return ErrStopped
	}
	t := task{id: uuid.New(), name: name, fn: fn}
	select {
	case d.tasks <- t:
		d.log.Debug(context.Background(), "task enqueued", "task_id", t.id, "task", name)
		return nil
	default:
		d.log.Warn(context.Background(), "task queue full", "task", name)
		return ErrQueueFull
	}
}

// Done is closed after the worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(ctx context.Context, t task) {
	log := d.log.With("task_id", t.id, "task", t.name)

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "task panicked", "panic", p)
		}
	}()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		log.Error(ctx, "task failed", "err", err, "duration", time.Since(start))
		return
	}
	log.Debug(ctx, "task done", "duration", time.Since(start))
}
