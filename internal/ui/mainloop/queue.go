package mainloop

import (
	"context"
	"sync"
)

// Queue is a FIFO of main-loop tasks. Post never runs a task inline, so it is
// safe to call from inside a running task or while holding caller locks.
type Queue struct {
	mu     sync.Mutex
	runMu  sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed bool
}

// NewQueue creates an empty task queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Post appends fn to the queue. Tasks posted after Close are dropped.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunPending runs tasks in order until the queue is empty, including tasks
// posted by the tasks themselves, and returns how many ran.
func (q *Queue) RunPending() int {
	q.runMu.Lock()
	defer q.runMu.Unlock()

	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return ran
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		fn()
		ran++
	}
}

// Run pumps the queue until ctx is done or the queue is closed.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.RunPending()

		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Close stops accepting tasks and wakes a running pump so it can return.
// Tasks already queued still run on the next RunPending.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}
