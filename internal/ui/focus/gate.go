package focus

import (
	"context"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// Gate decides, for every proposed native focus change, whether the native
// layer must perform it. It implements port.NativeFocusGate.
type Gate struct {
	queue   *RequestQueue
	tree    port.ComponentTree
	peer    port.NativePeer
	state   *OwnerState
	poster  port.EventPoster
	metrics port.FocusMetrics
}

var _ port.NativeFocusGate = (*Gate)(nil)

// NewGate wires a gate over queue.
func NewGate(
	queue *RequestQueue,
	tree port.ComponentTree,
	peer port.NativePeer,
	state *OwnerState,
	poster port.EventPoster,
	metrics port.FocusMetrics,
) *Gate {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Gate{
		queue:   queue,
		tree:    tree,
		peer:    peer,
		state:   state,
		poster:  poster,
		metrics: metrics,
	}
}

// RequestNativeFocus implements port.NativeFocusGate.
func (g *Gate) RequestNativeFocus(ctx context.Context, req entity.NativeFocusRequest) entity.GateResult {
	light := req.Target()
	heavy := req.Heavyweight
	log := logging.FromContext(logging.WithElement(ctx, light))

	// Read outside the queue lock: the peer answers these without its native lock
	// and the owner state has its own lock.
	current := g.state.FocusOwner()
	nativeOwner := g.peer.NativeFocusOwner()
	nativeWindow := g.peer.NativeFocusedWindow()

	var synth []entity.Event
	result := func() entity.GateResult {
		g.queue.mu.Lock()
		defer g.queue.mu.Unlock()

		tail := g.queue.tailLocked()

		if tail == nil && heavy == nativeOwner && g.tree.TopLevel(heavy) == nativeWindow {
			if light == current {
				return entity.GateFailure
			}
			g.queue.appendLocked(heavy, light, req.Temporary, req.Cause, req.When)
			if !current.IsNone() {
				lost := entity.NewFocusLost(current, light, req.Temporary, req.Cause)
				lost.When = req.When
				synth = append(synth, lost)
			}
			gained := entity.NewFocusGained(light, current, req.Temporary, req.Cause)
			gained.When = req.When
			synth = append(synth, gained)
			return entity.GateHandled
		}

		if tail != nil && !tail.clear && tail.Target == heavy {
			g.queue.appendLocked(heavy, light, req.Temporary, req.Cause, req.When)
			return entity.GateHandled
		}

		if !req.WindowChangeAllowed {
			// A clear request carries no window; look one request further back.
			ref := tail
			if ref.IsClearSentinel() {
				ref = g.queue.beforeTailLocked()
			}
			from := nativeWindow
			if ref != nil {
				from = ref.Target
			}
			if focusedWindowChanged(g.tree, heavy, from) {
				return entity.GateFailure
			}
		}

		g.queue.appendLocked(heavy, light, req.Temporary, req.Cause, req.When)
		return entity.GateProceed
	}()

	for _, ev := range synth {
		g.poster.PostEvent(ctx, ev)
	}

	g.metrics.ObserveGate(result)
	log.Debug().
		Str("heavyweight", heavy.String()).
		Bool("temporary", req.Temporary).
		Bool("window_change_allowed", req.WindowChangeAllowed).
		Str("cause", req.Cause.String()).
		Str("result", result.String()).
		Msg("native focus gate")
	return result
}

// RetractNativeFocus implements port.NativeFocusGate.
func (g *Gate) RetractNativeFocus(ctx context.Context, heavyweight entity.ElementID) bool {
	ok := g.queue.RemoveTailIfMatches(heavyweight)
	logging.FromContext(ctx).Debug().
		Str("heavyweight", heavyweight.String()).
		Bool("retracted", ok).
		Msg("native focus request retracted")
	return ok
}

// MarkClearGlobalFocusOwner queues the clear sentinel and returns the frame or
// dialog whose native focus must be cleared. It returns false for a duplicate
// clear request.
func (g *Gate) MarkClearGlobalFocusOwner(ctx context.Context) (entity.ElementID, bool) {
	nativeWindow := g.peer.NativeFocusedWindow()

	g.queue.mu.Lock()
	prev, ok := g.queue.appendClearLocked()
	var window entity.ElementID
	if ok {
		window = nativeWindow
		if prev != nil {
			window = g.tree.TopLevel(prev.Target)
		}
	}
	g.queue.mu.Unlock()

	if !ok {
		logging.FromContext(ctx).Debug().Msg("duplicate clear global focus owner request")
		return entity.None, false
	}
	if !window.IsNone() {
		window = g.tree.ActivatableWindow(window)
	}
	return window, true
}

// SynchronousLightweightTransfer queues a transfer to light inside heavy that
// needs no native round-trip and returns the event pair the caller must
// dispatch synchronously. It applies only while the queue is empty, heavy
// owns native focus and no multi-entry replay is running. handled is true for
// a redundant request, with no events.
func (g *Gate) SynchronousLightweightTransfer(
	ctx context.Context, req entity.NativeFocusRequest,
) (events []entity.FocusEvent, handled bool) {
	light := req.Target()
	current := g.state.FocusOwner()
	nativeOwner := g.peer.NativeFocusOwner()

	g.queue.mu.Lock()
	if g.queue.tailLocked() != nil || req.Heavyweight != nativeOwner || g.queue.syncBlocked {
		g.queue.mu.Unlock()
		return nil, false
	}
	if light == current {
		g.queue.mu.Unlock()
		return nil, true
	}
	g.queue.appendLocked(req.Heavyweight, light, req.Temporary, entity.CauseUnknown, req.When)
	g.queue.mu.Unlock()

	if !current.IsNone() {
		lost := entity.NewFocusLost(current, light, req.Temporary, entity.CauseUnknown)
		lost.When = req.When
		events = append(events, lost)
	}
	gained := entity.NewFocusGained(light, current, req.Temporary, entity.CauseUnknown)
	gained.When = req.When
	events = append(events, gained)

	logging.FromContext(ctx).Debug().
		Str("heavyweight", req.Heavyweight.String()).
		Str("lightweight", light.String()).
		Msg("synchronous lightweight transfer")
	return events, true
}

// isTemporary reports whether a transfer from "from" to "to" is temporary
// because it crosses top-level windows.
func isTemporary(tree port.ComponentTree, to, from entity.ElementID) bool {
	w := tree.TopLevel(to)
	w1 := tree.TopLevel(from)
	if w.IsNone() && w1.IsNone() {
		return false
	}
	if w.IsNone() {
		return true
	}
	if w1.IsNone() {
		return false
	}
	return w != w1
}

// focusedWindowChanged reports whether a and b live in different top-levels.
// An element outside any window counts as a change.
func focusedWindowChanged(tree port.ComponentTree, a, b entity.ElementID) bool {
	w := tree.TopLevel(a)
	w1 := tree.TopLevel(b)
	if w.IsNone() || w1.IsNone() {
		return true
	}
	return w != w1
}
