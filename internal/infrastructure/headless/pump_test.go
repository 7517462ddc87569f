package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/ui/mainloop"
)

type dispatchFunc func(ctx context.Context, ev entity.Event) error

func (f dispatchFunc) Dispatch(ctx context.Context, ev entity.Event) error { return f(ctx, ev) }

func TestPump_DispatchesInOrderAfterDrain(t *testing.T) {
	p := NewPump(mainloop.NewQueue())
	var got []int
	p.Bind(dispatchFunc(func(_ context.Context, ev entity.Event) error {
		got = append(got, ev.(entity.KeyEvent).Code)
		if len(got) == 1 {
			// Events posted while dispatching run after the ones already queued.
			p.PostEvent(context.Background(), entity.KeyEvent{Code: 3})
		}
		return nil
	}))

	ctx := context.Background()
	p.PostEvent(ctx, entity.KeyEvent{Code: 1})
	p.PostEvent(ctx, entity.KeyEvent{Code: 2})
	assert.Empty(t, got, "posting never dispatches inline")

	p.Drain()
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, Stats{Posted: 3, Dispatched: 3}, p.Stats())
}

func TestPump_ReportsFailures(t *testing.T) {
	p := NewPump(mainloop.NewQueue())
	boom := errors.New("boom")
	p.Bind(dispatchFunc(func(context.Context, entity.Event) error { return boom }))

	var reported []error
	p.OnError(func(err error) { reported = append(reported, err) })

	p.PostEvent(context.Background(), entity.KeyEvent{})
	p.Drain()

	assert.Equal(t, []error{boom}, reported)
	assert.Equal(t, uint64(1), p.Stats().Failures)
}

func TestPump_UnboundDropsEvents(t *testing.T) {
	p := NewPump(mainloop.NewQueue())
	p.PostEvent(context.Background(), entity.KeyEvent{})
	p.Drain()
	assert.Equal(t, Stats{Posted: 1}, p.Stats())
}

func TestPump_CanceledContextStillDispatches(t *testing.T) {
	p := NewPump(mainloop.NewQueue())
	var ctxErr error
	p.Bind(dispatchFunc(func(ctx context.Context, _ entity.Event) error {
		ctxErr = ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	p.PostEvent(ctx, entity.KeyEvent{})
	cancel()
	p.Drain()
	assert.NoError(t, ctxErr)
}

func TestPump_Run(t *testing.T) {
	p := NewPump(mainloop.NewQueue())
	done := make(chan struct{})
	p.Bind(dispatchFunc(func(context.Context, entity.Event) error {
		close(done)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	p.PostEvent(ctx, entity.KeyEvent{})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event not dispatched")
	}

	p.Close()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
