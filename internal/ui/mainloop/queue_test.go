package mainloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasksInOrderIncludingNestedPosts(t *testing.T) {
	q := NewQueue()
	var order []int

	q.Post(func() {
		order = append(order, 1)
		q.Post(func() { order = append(order, 3) })
	})
	q.Post(func() { order = append(order, 2) })

	ran := q.RunPending()

	assert.Equal(t, 3, ran)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, q.Len())
}

func TestQueueDropsPostsAfterClose(t *testing.T) {
	q := NewQueue()
	q.Close()
	q.Post(func() { t.Fatal("task must not run after close") })

	assert.Zero(t, q.RunPending())
}

func TestQueueRunStopsOnContextCancel(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	ran := make(chan struct{})
	go func() { done <- q.Run(ctx) }()

	q.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted task did not run")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
