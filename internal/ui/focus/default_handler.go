package focus

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

type sendKey struct{}

// withSend marks ctx as carrying an event the manager sent to itself while
// handling another one.
func withSend(ctx context.Context) context.Context {
	return context.WithValue(ctx, sendKey{}, true)
}

func inSend(ctx context.Context) bool {
	v, _ := ctx.Value(sendKey{}).(bool)
	return v
}

func (m *Manager) handleFocus(ctx context.Context, ev entity.FocusEvent) error {
	switch ev.Kind {
	case entity.FocusGained:
		return m.focusGained(ctx, ev)
	case entity.FocusLost:
		return m.focusLost(ctx, ev)
	}
	return nil
}

func (m *Manager) focusGained(ctx context.Context, fe entity.FocusEvent) error {
	log := logging.FromContext(ctx)
	oldOwner := m.state.FocusOwner()
	newOwner := fe.Source

	if oldOwner == newOwner {
		// Nothing changes, but a type-ahead marker may wait for this element.
		m.keys.ReleaseHeldEvents(time.Time{}, newOwner)
		return nil
	}

	var caught error
	if !oldOwner.IsNone() {
		lost := entity.FocusEvent{
			Kind:      entity.FocusLost,
			Source:    oldOwner,
			Opposite:  newOwner,
			Temporary: fe.Temporary,
			Cause:     fe.Cause,
			When:      fe.When,
		}
		if err := m.dispatchFocus(withSend(ctx), lost); err != nil {
			caught = err
			m.setOwnerQuietly(ctx, entity.None, !fe.Temporary)
		}
	}

	// The native layer may focus an element outside the focused window.
	newWindow := m.tree.TopLevel(newOwner)
	currentWindow := m.state.FocusedWindow()
	if !newWindow.IsNone() && newWindow != currentWindow {
		we := entity.WindowEvent{
			Kind:     entity.WindowGainedFocus,
			Window:   newWindow,
			Opposite: currentWindow,
			When:     fe.When,
		}
		caught = keepLatest(ctx, caught, m.handleWindow(withSend(ctx), we))
		if m.state.FocusedWindow() != newWindow {
			// Focus was restored by the window handler already.
			m.keys.ReleaseHeldEvents(time.Time{}, newOwner)
			return caught
		}
	}

	if !m.tree.IsFocusable(newOwner) {
		log.Debug().Str("element", newOwner.String()).Msg("rejecting focus for unfocusable element")
		m.keys.ReleaseHeldEvents(time.Time{}, newOwner)
		if m.opts.AutoFocusTransfer {
			window := newWindow
			if window.IsNone() {
				window = currentWindow
			}
			m.restoreFocusForEvent(ctx, fe, window)
			m.state.Recent().Set(newWindow, entity.None)
		}
		return caught
	}

	if !m.applyOwner(ctx, newOwner, !fe.Temporary) {
		m.keys.ReleaseHeldEvents(time.Time{}, newOwner)
		if m.opts.AutoFocusTransfer {
			m.restoreFocusForEvent(ctx, fe, newWindow)
		}
		return caught
	}

	m.mu.Lock()
	realOpposite := m.realOppositeComponent
	m.mu.Unlock()
	if !realOpposite.IsNone() && realOpposite != fe.Opposite {
		fe.Opposite = realOpposite
	}

	m.keys.FocusGained(newOwner)
	return keepLatest(ctx, caught, m.deliver(ctx, newOwner, fe, func() error {
		return m.sink.DeliverFocus(ctx, fe)
	}))
}

// applyOwner sets the focus owner, and the permanent owner when permanent is
// true, and reports whether both changes stuck.
func (m *Manager) applyOwner(ctx context.Context, owner entity.ElementID, permanent bool) bool {
	if err := m.state.SetFocusOwner(ctx, owner); err != nil {
		logRejected(ctx, err, PropFocusOwner)
	}
	if m.state.FocusOwner() != owner {
		return false
	}
	if !permanent {
		return true
	}
	if err := m.state.SetPermanentFocusOwner(ctx, owner); err != nil {
		logRejected(ctx, err, PropPermanentFocusOwner)
	}
	return m.state.PermanentFocusOwner() == owner
}

func (m *Manager) setOwnerQuietly(ctx context.Context, owner entity.ElementID, permanent bool) {
	if err := m.state.SetFocusOwner(ctx, owner); err != nil {
		logRejected(ctx, err, PropFocusOwner)
	}
	if permanent {
		if err := m.state.SetPermanentFocusOwner(ctx, owner); err != nil {
			logRejected(ctx, err, PropPermanentFocusOwner)
		}
	}
}

func logRejected(ctx context.Context, err error, prop Property) {
	var veto *VetoError
	if errors.As(err, &veto) {
		logging.FromContext(ctx).Debug().Str("property", string(prop)).Err(err).Msg("focus change vetoed")
		return
	}
	logging.FromContext(ctx).Warn().Str("property", string(prop)).Err(err).Msg("focus change rejected")
}

func (m *Manager) focusLost(ctx context.Context, fe entity.FocusEvent) error {
	current := m.state.FocusOwner()
	if current.IsNone() {
		logging.FromContext(ctx).Trace().Str("event", fe.String()).Msg("skipping focus lost without focus owner")
		return nil
	}
	// Losing focus to itself; a wrong retarget is fixed by the next gained.
	if current == fe.Opposite {
		return nil
	}

	if err := m.state.SetFocusOwner(ctx, entity.None); err != nil {
		logRejected(ctx, err, PropFocusOwner)
	}
	if !m.state.FocusOwner().IsNone() {
		m.doRestoreFocus(ctx, current, entity.None, true)
		return nil
	}

	if !fe.Temporary {
		if err := m.state.SetPermanentFocusOwner(ctx, entity.None); err != nil {
			logRejected(ctx, err, PropPermanentFocusOwner)
		}
		if !m.state.PermanentFocusOwner().IsNone() {
			m.doRestoreFocus(ctx, current, entity.None, true)
			return nil
		}
	} else {
		m.state.Recent().SetTemporaryLost(m.tree.TopLevel(current), current)
	}

	fe.Source = current
	m.mu.Lock()
	if fe.Opposite.IsNone() {
		m.realOppositeComponent = entity.None
	} else {
		m.realOppositeComponent = current
	}
	m.mu.Unlock()

	return m.deliver(ctx, current, fe, func() error {
		return m.sink.DeliverFocus(ctx, fe)
	})
}

func (m *Manager) handleWindow(ctx context.Context, we entity.WindowEvent) error {
	switch we.Kind {
	case entity.WindowGainedFocus:
		return m.windowGainedFocus(ctx, we)
	case entity.WindowLostFocus:
		return m.windowLostFocus(ctx, we)
	case entity.WindowActivated:
		return m.windowActivated(ctx, we)
	case entity.WindowDeactivated:
		return m.windowDeactivated(ctx, we)
	}
	return nil
}

func (m *Manager) windowGainedFocus(ctx context.Context, we entity.WindowEvent) error {
	oldWindow := m.state.FocusedWindow()
	newWindow := we.Window
	if newWindow == oldWindow {
		return nil
	}
	if !m.tree.IsFocusableWindow(newWindow) {
		m.restoreFocusForWindow(ctx, we)
		return nil
	}

	var caught error
	if !oldWindow.IsNone() {
		lost := entity.WindowEvent{Kind: entity.WindowLostFocus, Window: oldWindow, Opposite: newWindow, When: we.When}
		if err := m.handleWindow(withSend(ctx), lost); err != nil {
			caught = err
			m.setOwnerQuietly(ctx, entity.None, false)
			if err := m.state.SetFocusedWindow(ctx, entity.None); err != nil {
				logRejected(ctx, err, PropFocusedWindow)
			}
		}
	}

	// Native layers do not report activation; derive it from the focused window.
	newActive := m.tree.ActivatableWindow(newWindow)
	currentActive := m.state.ActiveWindow()
	if newActive != currentActive {
		activated := entity.WindowEvent{Kind: entity.WindowActivated, Window: newActive, Opposite: currentActive, When: we.When}
		caught = keepLatest(ctx, caught, m.handleWindow(withSend(ctx), activated))
		if m.state.ActiveWindow() != newActive {
			m.restoreFocusForWindow(ctx, we)
			return caught
		}
	}

	if err := m.state.SetFocusedWindow(ctx, newWindow); err != nil {
		logRejected(ctx, err, PropFocusedWindow)
	}
	if m.state.FocusedWindow() != newWindow {
		m.restoreFocusForWindow(ctx, we)
		return caught
	}

	// A window focused by a gained event sent from within the manager lets
	// that event's element keep focus; otherwise pick the element to restore.
	if !inSend(ctx) {
		m.focusWindowContent(ctx, newWindow)
	}

	m.mu.Lock()
	realOpposite := m.realOppositeWindow
	m.mu.Unlock()
	if realOpposite != we.Opposite {
		we.Opposite = realOpposite
	}

	return keepLatest(ctx, caught, m.deliver(ctx, newWindow, we, func() error {
		return m.sink.DeliverWindow(ctx, we)
	}))
}

// focusWindowContent requests focus for the element that lost focus
// temporarily inside window and for the window's most recent owner.
func (m *Manager) focusWindowContent(ctx context.Context, window entity.ElementID) {
	log := logging.FromContext(ctx)
	recent := m.state.Recent()

	toFocus := recent.Get(window)
	if toFocus.IsNone() {
		toFocus = m.tree.DefaultComponent(window)
	}
	tempLost := recent.TemporaryLost(window)
	recent.SetTemporaryLost(window, entity.None)

	opts := RequestOptions{Cause: entity.CauseActivation}
	if !tempLost.IsNone() {
		if _, err := m.RequestFocus(ctx, tempLost, opts); err != nil {
			log.Debug().Err(err).Str("element", tempLost.String()).Msg("cannot restore temporarily lost focus")
		}
	}
	if !toFocus.IsNone() && toFocus != tempLost {
		if _, err := m.RequestFocus(ctx, toFocus, opts); err != nil {
			log.Debug().Err(err).Str("element", toFocus.String()).Msg("cannot restore most recent focus owner")
		}
	}
}

func (m *Manager) windowLostFocus(ctx context.Context, we entity.WindowEvent) error {
	currentWindow := m.state.FocusedWindow()
	activeWindow := m.state.ActiveWindow()
	opposite := we.Opposite
	if currentWindow.IsNone() {
		return nil
	}
	// Native artifact: the active window claims to lose focus to the focused one.
	if !inSend(ctx) && we.Window == activeWindow && opposite == currentWindow {
		return nil
	}

	var caught error
	if owner := m.state.FocusOwner(); !owner.IsNone() {
		// The focus owner always loses focus before its window does.
		var oppositeElement entity.ElementID
		if !opposite.IsNone() {
			oppositeElement = m.state.Recent().TemporaryLost(opposite)
			if oppositeElement.IsNone() {
				oppositeElement = m.state.Recent().Get(opposite)
			}
		}
		if oppositeElement.IsNone() {
			oppositeElement = opposite
		}
		lost := entity.FocusEvent{
			Kind:      entity.FocusLost,
			Source:    owner,
			Opposite:  oppositeElement,
			Temporary: true,
			Cause:     entity.CauseActivation,
			When:      we.When,
		}
		caught = m.dispatchFocus(withSend(ctx), lost)
	}

	if err := m.state.SetFocusedWindow(ctx, entity.None); err != nil {
		logRejected(ctx, err, PropFocusedWindow)
	}
	if !m.state.FocusedWindow().IsNone() {
		m.restoreInWindow(ctx, currentWindow, entity.None, true)
		return caught
	}

	we.Window = currentWindow
	m.mu.Lock()
	if opposite.IsNone() {
		m.realOppositeWindow = entity.None
	} else {
		m.realOppositeWindow = currentWindow
	}
	m.mu.Unlock()
	caught = keepLatest(ctx, caught, m.deliver(ctx, currentWindow, we, func() error {
		return m.sink.DeliverWindow(ctx, we)
	}))

	// Focus left the application: the active window goes too.
	if opposite.IsNone() && !activeWindow.IsNone() {
		deactivated := entity.WindowEvent{Kind: entity.WindowDeactivated, Window: activeWindow, When: we.When}
		caught = keepLatest(ctx, caught, m.handleWindow(withSend(ctx), deactivated))
		if !m.state.ActiveWindow().IsNone() {
			m.restoreInWindow(ctx, currentWindow, entity.None, true)
		}
	}
	return caught
}

func (m *Manager) windowActivated(ctx context.Context, we entity.WindowEvent) error {
	oldActive := m.state.ActiveWindow()
	newActive := we.Window
	if oldActive == newActive {
		return nil
	}

	var caught error
	if !oldActive.IsNone() {
		deactivated := entity.WindowEvent{Kind: entity.WindowDeactivated, Window: oldActive, Opposite: newActive, When: we.When}
		if err := m.handleWindow(withSend(ctx), deactivated); err != nil {
			caught = err
			if err := m.state.SetActiveWindow(ctx, entity.None); err != nil {
				logRejected(ctx, err, PropActiveWindow)
			}
		}
		if !m.state.ActiveWindow().IsNone() {
			return caught
		}
	}

	if err := m.state.SetActiveWindow(ctx, newActive); err != nil {
		logRejected(ctx, err, PropActiveWindow)
	}
	if m.state.ActiveWindow() != newActive {
		return caught
	}
	return keepLatest(ctx, caught, m.deliver(ctx, newActive, we, func() error {
		return m.sink.DeliverWindow(ctx, we)
	}))
}

func (m *Manager) windowDeactivated(ctx context.Context, we entity.WindowEvent) error {
	current := m.state.ActiveWindow()
	if current.IsNone() || current != we.Window {
		// Stale event: the active window changed since it was posted.
		return nil
	}
	if err := m.state.SetActiveWindow(ctx, entity.None); err != nil {
		logRejected(ctx, err, PropActiveWindow)
	}
	if !m.state.ActiveWindow().IsNone() {
		return nil
	}
	return m.deliver(ctx, current, we, func() error {
		return m.sink.DeliverWindow(ctx, we)
	})
}

// restoreFocusForEvent puts focus back after fe was rejected: into window,
// else to the element that last lost focus, else to fe's opposite. When all
// fail the focus owner is cleared.
func (m *Manager) restoreFocusForEvent(ctx context.Context, fe entity.FocusEvent, window entity.ElementID) {
	if !restoreAllowed(ctx) {
		return
	}
	m.mu.Lock()
	realOpposite := m.realOppositeComponent
	m.mu.Unlock()
	vetoed := fe.Source

	switch {
	case !window.IsNone() && m.restoreInWindow(ctx, window, vetoed, false):
	case !realOpposite.IsNone() && m.doRestoreFocus(ctx, realOpposite, vetoed, false):
	case !fe.Opposite.IsNone() && m.doRestoreFocus(ctx, fe.Opposite, vetoed, false):
	default:
		m.clearGlobalFocusOwner(ctx)
	}
}

func (m *Manager) restoreFocusForWindow(ctx context.Context, we entity.WindowEvent) {
	if !restoreAllowed(ctx) {
		return
	}
	m.mu.Lock()
	realOpposite := m.realOppositeWindow
	m.mu.Unlock()

	switch {
	case !realOpposite.IsNone() && m.restoreInWindow(ctx, realOpposite, entity.None, false):
	case !we.Opposite.IsNone() && m.restoreInWindow(ctx, we.Opposite, entity.None, false):
	default:
		m.clearGlobalFocusOwner(ctx)
	}
}

func (m *Manager) restoreInWindow(ctx context.Context, window, vetoed entity.ElementID, clearOnFailure bool) bool {
	toFocus := m.state.Recent().Get(window)
	if !toFocus.IsNone() && toFocus != vetoed && m.doRestoreFocus(ctx, toFocus, vetoed, false) {
		return true
	}
	if clearOnFailure {
		m.clearGlobalFocusOwner(ctx)
		return true
	}
	return false
}

// doRestoreFocus requests focus for toFocus, or for the element after it in
// its focus cycle, with cause rollback.
func (m *Manager) doRestoreFocus(ctx context.Context, toFocus, vetoed entity.ElementID, clearOnFailure bool) bool {
	if toFocus != vetoed && m.tree.IsFocusable(toFocus) {
		ok, err := m.RequestFocus(ctx, toFocus, RequestOptions{WindowChangeAllowed: true, Cause: entity.CauseRollback})
		if err == nil && ok {
			return true
		}
	}

	root := m.tree.FocusCycleRootAncestor(toFocus)
	if root.IsNone() {
		root = m.tree.TopLevel(toFocus)
	}
	if next := m.tree.ComponentAfter(root, toFocus); !next.IsNone() && next != vetoed {
		ok, err := m.RequestFocus(ctx, next, RequestOptions{Cause: entity.CauseRollback})
		if err == nil && ok {
			return true
		}
	}

	if clearOnFailure {
		m.clearGlobalFocusOwner(ctx)
		return true
	}
	return false
}
