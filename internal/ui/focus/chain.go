package focus

import (
	"context"
	"sync"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// KeyEventDispatcher takes part in key event routing. TryDispatch returns true
// when it consumed the event, which stops the chain.
type KeyEventDispatcher interface {
	TryDispatch(ctx context.Context, ev entity.KeyEvent) bool
}

// KeyEventDispatcherFunc adapts a function to KeyEventDispatcher.
type KeyEventDispatcherFunc func(ctx context.Context, ev entity.KeyEvent) bool

// TryDispatch implements KeyEventDispatcher.
func (f KeyEventDispatcherFunc) TryDispatch(ctx context.Context, ev entity.KeyEvent) bool {
	return f(ctx, ev)
}

type chainEntry struct {
	id uint64
	d  KeyEventDispatcher
}

// Chain is an ordered list of dispatchers, safe for concurrent use.
type Chain struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []chainEntry
}

// Add appends d and returns a function removing it again.
func (c *Chain) Add(d KeyEventDispatcher) func() {
	if d == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.entries = append(c.entries, chainEntry{id: id, d: d})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.entries {
			if e.id == id {
				c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered dispatchers.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Dispatch offers ev to each dispatcher in order until one consumes it.
func (c *Chain) Dispatch(ctx context.Context, ev entity.KeyEvent) bool {
	c.mu.RLock()
	entries := append([]chainEntry(nil), c.entries...)
	c.mu.RUnlock()

	for _, e := range entries {
		if e.d.TryDispatch(ctx, ev) {
			return true
		}
	}
	return false
}
