package port

import (
	"context"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// EventSink delivers retargeted events to the elements' own listeners.
// Errors and panics raised by listeners are captured by the focus core.
type EventSink interface {
	DeliverFocus(ctx context.Context, ev entity.FocusEvent) error
	DeliverWindow(ctx context.Context, ev entity.WindowEvent) error
	DeliverKey(ctx context.Context, ev entity.KeyEvent, target entity.ElementID) error
}

// EventPoster posts a synthesized event back onto the toolkit's event queue.
// It must not dispatch synchronously.
type EventPoster interface {
	PostEvent(ctx context.Context, ev entity.Event)
}

// EventPosterFunc adapts a function to EventPoster.
type EventPosterFunc func(ctx context.Context, ev entity.Event)

// PostEvent implements EventPoster.
func (f EventPosterFunc) PostEvent(ctx context.Context, ev entity.Event) {
	f(ctx, ev)
}
