package port

import (
	"context"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// NativeFocusGate is consulted by the native peer before every native focus change.
type NativeFocusGate interface {
	// RequestNativeFocus decides whether the transfer proceeds natively.
	RequestNativeFocus(ctx context.Context, req entity.NativeFocusRequest) entity.GateResult
	// RetractNativeFocus withdraws the last approved request for heavyweight
	// when the native layer refused to perform it.
	RetractNativeFocus(ctx context.Context, heavyweight entity.ElementID) bool
	// MarkClearGlobalFocusOwner queues a clear request and returns the window
	// whose native focus must be dropped. It returns false for a duplicate.
	MarkClearGlobalFocusOwner(ctx context.Context) (entity.ElementID, bool)
}

// NativePeer is the toolkit's native focus layer.
//
// RequestFocus must call gate.RequestNativeFocus, and ClearGlobalFocusOwner
// gate.MarkClearGlobalFocusOwner, and perform the native change atomically
// with respect to other native focus changes (a single native event thread
// or an equivalent native lock). NativeFocusOwner and NativeFocusedWindow
// must not wait on that lock: the gate reads them while the peer holds it.
type NativePeer interface {
	NativeFocusOwner() entity.ElementID
	NativeFocusedWindow() entity.ElementID
	RequestFocus(ctx context.Context, req entity.NativeFocusRequest, gate NativeFocusGate) (bool, error)
	// ClearGlobalFocusOwner drops native focus inside the window named by the
	// gate, which must eventually produce a raw FOCUS_LOST with no opposite.
	ClearGlobalFocusOwner(ctx context.Context, gate NativeFocusGate) error
}
