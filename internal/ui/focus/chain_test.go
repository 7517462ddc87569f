package focus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/focuscore/internal/domain/entity"
)

func TestChain_StopsAtFirstConsumer(t *testing.T) {
	var c Chain
	var calls []string

	c.Add(KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool {
		calls = append(calls, "first")
		return false
	}))
	c.Add(KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool {
		calls = append(calls, "second")
		return true
	}))
	c.Add(KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool {
		calls = append(calls, "third")
		return true
	}))

	assert.True(t, c.Dispatch(context.Background(), entity.KeyEvent{Code: 9}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestChain_RemoveFunctions(t *testing.T) {
	var c Chain
	consumed := KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool { return true })

	removeA := c.Add(consumed)
	removeB := c.Add(consumed)
	assert.Equal(t, 2, c.Len())

	removeA()
	removeA()
	assert.Equal(t, 1, c.Len(), "removing twice is harmless")

	removeB()
	assert.Zero(t, c.Len())
	assert.False(t, c.Dispatch(context.Background(), entity.KeyEvent{}))
}

func TestChain_DispatcherMayRemoveItself(t *testing.T) {
	var c Chain
	var remove func()
	calls := 0
	remove = c.Add(KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool {
		calls++
		remove()
		return false
	}))

	c.Dispatch(context.Background(), entity.KeyEvent{})
	c.Dispatch(context.Background(), entity.KeyEvent{})

	assert.Equal(t, 1, calls)
	assert.Zero(t, c.Len())
}

func TestChain_AddNilIsIgnored(t *testing.T) {
	var c Chain
	remove := c.Add(nil)
	remove()
	assert.Zero(t, c.Len())
}
