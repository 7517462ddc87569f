// Package mainloop schedules work onto the toolkit's event-dispatch loop.
package mainloop

import "sync"

// Coalescer collapses repeated main-loop tasks posted under the same key.
// While a key waits to run, later posts replace its callback instead of
// scheduling another task, so a burst runs once with the newest callback.
type Coalescer[K comparable] struct {
	mu        sync.Mutex
	tasks     map[K]func()
	post      func(func())
	merged    uint64
	destroyed bool
}

// NewCoalescer creates a coalescer scheduling through post.
func NewCoalescer[K comparable](post func(func())) *Coalescer[K] {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer[K]{
		tasks: make(map[K]func()),
		post:  post,
	}
}

// Post schedules fn under key. It reports false when the call merged into a
// pending task, when key is the zero value, or after Destroy.
func (c *Coalescer[K]) Post(key K, fn func()) bool {
	var zero K
	if key == zero {
		return false
	}
	if fn == nil {
		fn = func() {}
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return false
	}
	_, pending := c.tasks[key]
	c.tasks[key] = fn
	if pending {
		c.merged++
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	c.post(func() { c.run(key) })
	return true
}

func (c *Coalescer[K]) run(key K) {
	c.mu.Lock()
	fn, ok := c.tasks[key]
	delete(c.tasks, key)
	destroyed := c.destroyed
	c.mu.Unlock()

	if ok && !destroyed {
		fn()
	}
}

// Pending reports whether a task for key is scheduled but has not run yet.
func (c *Coalescer[K]) Pending(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tasks[key]
	return ok
}

// Merged returns how many posts were folded into an already pending task.
func (c *Coalescer[K]) Merged() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merged
}

// Destroy drops pending callbacks; tasks already handed to post become no-ops.
func (c *Coalescer[K]) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	clear(c.tasks)
	c.mu.Unlock()
}
