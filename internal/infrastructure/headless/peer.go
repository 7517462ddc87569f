package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// ErrNotShowing is returned when native focus is asked for a window that is
// not part of the tree.
var ErrNotShowing = errors.New("window not showing")

// Peer is the headless native focus layer. The native lock serializes every
// native focus change the way a native event thread would; raw focus, window
// and key events are reported asynchronously through the poster.
type Peer struct {
	tree   *Tree
	poster port.EventPoster
	clock  func() time.Time

	// native is held across the gate call and the native change.
	native sync.Mutex

	mu     sync.RWMutex
	owner  entity.ElementID
	window entity.ElementID
	refuse map[entity.ElementID]bool
}

var _ port.NativePeer = (*Peer)(nil)

// NewPeer creates a peer reporting raw events to poster.
func NewPeer(tree *Tree, poster port.EventPoster, clock func() time.Time) *Peer {
	if clock == nil {
		clock = time.Now
	}
	return &Peer{
		tree:   tree,
		poster: poster,
		clock:  clock,
		refuse: make(map[entity.ElementID]bool),
	}
}

func (p *Peer) NativeFocusOwner() entity.ElementID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.owner
}

func (p *Peer) NativeFocusedWindow() entity.ElementID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window
}

// Refuse makes the native layer reject focus for heavyweight after the gate
// approved it, as a window manager refusing a focus change would.
func (p *Peer) Refuse(heavyweight entity.ElementID, refuse bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if refuse {
		p.refuse[heavyweight] = true
		return
	}
	delete(p.refuse, heavyweight)
}

// RequestFocus consults the gate and performs the native change under the
// native lock.
func (p *Peer) RequestFocus(ctx context.Context, req entity.NativeFocusRequest, gate port.NativeFocusGate) (bool, error) {
	p.native.Lock()
	defer p.native.Unlock()

	log := logging.FromContext(ctx)
	switch res := gate.RequestNativeFocus(ctx, req); res {
	case entity.GateFailure:
		return false, nil
	case entity.GateHandled:
		return true, nil
	case entity.GateProceed:
	default:
		return false, fmt.Errorf("native focus for %s: unexpected gate result %s", req.Heavyweight, res)
	}

	p.mu.RLock()
	refused := p.refuse[req.Heavyweight]
	p.mu.RUnlock()
	if refused || p.tree.NativeContainer(req.Heavyweight) != req.Heavyweight {
		log.Debug().Str("heavyweight", string(req.Heavyweight)).Msg("native focus refused")
		gate.RetractNativeFocus(ctx, req.Heavyweight)
		return false, nil
	}

	p.transferLocked(ctx, req.Heavyweight)
	return true, nil
}

// Must be called with p.native held.
func (p *Peer) transferLocked(ctx context.Context, heavyweight entity.ElementID) {
	window := p.tree.TopLevel(heavyweight)

	p.mu.Lock()
	old := p.owner
	p.owner = heavyweight
	p.window = window
	p.mu.Unlock()

	if !old.IsNone() && old != heavyweight {
		p.post(ctx, entity.NewFocusLost(old, heavyweight, false, entity.CauseNativeSystem))
	}
	p.post(ctx, entity.NewFocusGained(heavyweight, old, false, entity.CauseNativeSystem))
}

// ClearGlobalFocusOwner marks the clear with the gate and drops native focus
// inside the window it names, under the native lock.
func (p *Peer) ClearGlobalFocusOwner(ctx context.Context, gate port.NativeFocusGate) error {
	p.native.Lock()
	defer p.native.Unlock()

	window, ok := gate.MarkClearGlobalFocusOwner(ctx)
	if !ok || window.IsNone() {
		return nil
	}

	p.mu.Lock()
	old := p.owner
	if old.IsNone() || p.tree.TopLevel(old) != window {
		p.mu.Unlock()
		return nil
	}
	p.owner = entity.None
	p.mu.Unlock()

	p.post(ctx, entity.NewFocusLost(old, entity.None, false, entity.CauseNativeSystem))
	return nil
}

// Activate simulates the user switching to window: the native owner loses
// focus without an opposite and window focus moves.
func (p *Peer) Activate(ctx context.Context, window entity.ElementID) error {
	if !p.tree.IsWindow(window) {
		return fmt.Errorf("activate %s: %w", window, ErrNotShowing)
	}
	p.native.Lock()
	defer p.native.Unlock()

	p.mu.Lock()
	oldOwner, oldWindow := p.owner, p.window
	if oldWindow == window {
		p.mu.Unlock()
		return nil
	}
	p.owner = entity.None
	p.window = window
	p.mu.Unlock()

	if !oldOwner.IsNone() {
		p.post(ctx, entity.NewFocusLost(oldOwner, entity.None, true, entity.CauseActivation))
	}
	if !oldWindow.IsNone() {
		p.post(ctx, entity.WindowEvent{Kind: entity.WindowLostFocus, Window: oldWindow, Opposite: window})
	}
	p.post(ctx, entity.WindowEvent{Kind: entity.WindowGainedFocus, Window: window, Opposite: oldWindow})
	return nil
}

// Deactivate simulates focus leaving the application.
func (p *Peer) Deactivate(ctx context.Context) {
	p.native.Lock()
	defer p.native.Unlock()

	p.mu.Lock()
	oldOwner, oldWindow := p.owner, p.window
	p.owner, p.window = entity.None, entity.None
	p.mu.Unlock()

	if !oldOwner.IsNone() {
		p.post(ctx, entity.NewFocusLost(oldOwner, entity.None, true, entity.CauseActivation))
	}
	if !oldWindow.IsNone() {
		p.post(ctx, entity.WindowEvent{Kind: entity.WindowLostFocus, Window: oldWindow})
	}
}

// Forget drops native focus held by removed elements.
func (p *Peer) Forget(ctx context.Context, removed ...entity.ElementID) {
	p.native.Lock()
	defer p.native.Unlock()

	p.mu.Lock()
	var lost entity.ElementID
	for _, id := range removed {
		delete(p.refuse, id)
		if p.owner == id {
			lost = id
			p.owner = entity.None
		}
		if p.window == id {
			p.window = entity.None
		}
	}
	p.mu.Unlock()

	if !lost.IsNone() {
		p.post(ctx, entity.NewFocusLost(lost, entity.None, false, entity.CauseNativeSystem))
	}
}

// Type reports a key press to the focused application.
func (p *Peer) Type(ctx context.Context, code int, r rune) {
	p.post(ctx, entity.KeyEvent{Code: code, Rune: r, Pressed: true})
}

func (p *Peer) post(ctx context.Context, ev entity.Event) {
	now := p.clock()
	switch e := ev.(type) {
	case entity.FocusEvent:
		e.When = now
		ev = e
	case entity.WindowEvent:
		e.When = now
		ev = e
	case entity.KeyEvent:
		e.When = now
		ev = e
	}
	logging.FromContext(ctx).Trace().Interface("event", ev).Msg("native event")
	p.poster.PostEvent(ctx, ev)
}
