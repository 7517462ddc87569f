// Package focus implements keyboard focus management: the queue of pending
// focus transfers, the gate consulted before native focus changes, the
// retargeting of native focus events and the per-context focus state.
package focus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
	"github.com/bnema/focuscore/internal/ui/mainloop"
)

// mainTask keys the coalesced main-loop work of a manager.
type mainTask uint8

const taskReplay mainTask = 1

// Deps are the collaborators of a Manager. Tree, Peer, Sink and Poster are
// required; the others may be nil.
type Deps struct {
	Tree       port.ComponentTree
	Peer       port.NativePeer
	Keys       port.KeyEventQueue
	Sink       port.EventSink
	Poster     port.EventPoster
	Authorizer port.Authorizer
	Metrics    port.FocusMetrics
}

// Options tune a Manager.
type Options struct {
	// Post schedules a task on the main loop. Lightweight replays run there.
	Post func(func())
	// SyncLightweightRequests lets transfers inside the native focus owner
	// complete synchronously, without a native round-trip.
	SyncLightweightRequests bool
	// AutoFocusTransfer restores focus elsewhere when a transfer is rejected.
	AutoFocusTransfer bool
	// RepairSweepThreshold is the number of consecutive repaired events after
	// which type-ahead markers are dropped. Zero disables the sweep.
	RepairSweepThreshold int
	// Clock stamps requests that carry no timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions(post func(func())) Options {
	return Options{
		Post:                 post,
		AutoFocusTransfer:    true,
		RepairSweepThreshold: 3,
	}
}

// RequestOptions qualify a focus request.
type RequestOptions struct {
	Temporary           bool
	WindowChangeAllowed bool
	Cause               entity.Cause
	// When defaults to the manager clock.
	When time.Time
}

// Manager is the focus manager of one isolation context.
type Manager struct {
	ctxID entity.ContextID

	tree    port.ComponentTree
	peer    port.NativePeer
	keys    port.KeyEventQueue
	sink    port.EventSink
	poster  port.EventPoster
	auth    port.Authorizer
	metrics port.FocusMetrics
	opts    Options

	queue    *RequestQueue
	gate     *Gate
	retarget *Retargeter
	state    *OwnerState
	replays  *mainloop.Coalescer[mainTask]

	dispatchers    Chain
	postProcessors Chain

	// realOpposite* remember the element and window that last lost focus to
	// somewhere inside the application, to patch the opposite of the next
	// gained event.
	mu                    sync.Mutex
	realOppositeComponent entity.ElementID
	realOppositeWindow    entity.ElementID

	disposed atomic.Bool
}

// NewManager creates the focus manager of ctxID.
func NewManager(ctxID entity.ContextID, deps Deps, opts Options) (*Manager, error) {
	switch {
	case deps.Tree == nil:
		return nil, errors.New("focus manager: component tree is required")
	case deps.Peer == nil:
		return nil, errors.New("focus manager: native peer is required")
	case deps.Sink == nil:
		return nil, errors.New("focus manager: event sink is required")
	case deps.Poster == nil:
		return nil, errors.New("focus manager: event poster is required")
	case opts.Post == nil:
		return nil, errors.New("focus manager: main loop post function is required")
	}
	if ctxID == "" {
		ctxID = entity.DefaultContext
	}
	if deps.Keys == nil {
		deps.Keys = noopKeyQueue{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	m := &Manager{
		ctxID:   ctxID,
		tree:    deps.Tree,
		peer:    deps.Peer,
		keys:    deps.Keys,
		sink:    deps.Sink,
		poster:  deps.Poster,
		auth:    deps.Authorizer,
		metrics: deps.Metrics,
		opts:    opts,
		replays: mainloop.NewCoalescer[mainTask](opts.Post),
	}
	m.queue = NewRequestQueue(ctxID, deps.Keys, deps.Metrics)
	m.state = NewOwnerState(deps.Tree, NewRecentOwners(), deps.Metrics)
	m.gate = NewGate(m.queue, deps.Tree, deps.Peer, m.state, deps.Poster, deps.Metrics)
	m.retarget = NewRetargeter(m.queue, deps.Tree, m.state, deps.Metrics, opts.RepairSweepThreshold, m.scheduleReplay)
	return m, nil
}

// ContextID returns the isolation context the manager serves.
func (m *Manager) ContextID() entity.ContextID { return m.ctxID }

// Gate returns the gate the native peer must consult.
func (m *Manager) Gate() *Gate { return m.gate }

// Queue returns the request queue.
func (m *Manager) Queue() *RequestQueue { return m.queue }

// State returns the focus state.
func (m *Manager) State() *OwnerState { return m.state }

func (m *Manager) FocusOwner() entity.ElementID            { return m.state.FocusOwner() }
func (m *Manager) PermanentFocusOwner() entity.ElementID   { return m.state.PermanentFocusOwner() }
func (m *Manager) FocusedWindow() entity.ElementID         { return m.state.FocusedWindow() }
func (m *Manager) ActiveWindow() entity.ElementID          { return m.state.ActiveWindow() }
func (m *Manager) CurrentFocusCycleRoot() entity.ElementID { return m.state.CurrentFocusCycleRoot() }

// MostRecentFocusOwner returns the element that last held permanent focus in window.
func (m *Manager) MostRecentFocusOwner(window entity.ElementID) entity.ElementID {
	return m.state.Recent().Get(window)
}

// OnChange registers a bound listener. See OwnerState.OnChange.
func (m *Manager) OnChange(prop Property, fn ChangeFunc) func() {
	return m.state.OnChange(prop, fn)
}

// OnVetoableChange registers a vetoable listener. See OwnerState.OnVetoableChange.
func (m *Manager) OnVetoableChange(prop Property, fn VetoableChangeFunc) func() {
	return m.state.OnVetoableChange(prop, fn)
}

type managerKey struct{}

// logCtx tags the logger in ctx with the manager's context, once per call chain.
func (m *Manager) logCtx(ctx context.Context) context.Context {
	if owner, _ := ctx.Value(managerKey{}).(*Manager); owner == m {
		return ctx
	}
	ctx = logging.WithComponent(logging.WithContextID(ctx, m.ctxID), "focus")
	return context.WithValue(ctx, managerKey{}, m)
}

// detach starts a new delivery from ctx. The logger and its manager tag
// survive; send and replay markers of the posting dispatch do not.
func (m *Manager) detach(ctx context.Context) context.Context {
	owner, _ := ctx.Value(managerKey{}).(*Manager)
	ctx = logging.Detach(ctx)
	if owner == m {
		ctx = context.WithValue(ctx, managerKey{}, m)
	}
	return ctx
}

func (m *Manager) authorize(ctx context.Context, action port.FocusAction) error {
	if m.disposed.Load() {
		return ErrManagerDisposed
	}
	if m.auth == nil {
		return nil
	}
	if err := m.auth.Authorize(ctx, action); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnauthorized, action, err)
	}
	return nil
}

// RequestFocus asks for target to become the focus owner. It returns false,
// without error, when the request is redundant or would change the focused
// window although opts forbid it.
func (m *Manager) RequestFocus(ctx context.Context, target entity.ElementID, opts RequestOptions) (bool, error) {
	ctx = m.logCtx(ctx)
	if err := m.authorize(ctx, port.ActionRequestFocus); err != nil {
		return false, err
	}
	if !m.tree.IsFocusable(target) {
		return false, fmt.Errorf("request focus %s: %w", target, ErrNotFocusable)
	}
	heavy := m.tree.NativeContainer(target)
	if heavy.IsNone() {
		return false, fmt.Errorf("request focus %s: %w", target, ErrNotDisplayable)
	}

	when := opts.When
	if when.IsZero() {
		when = m.opts.Clock()
	}
	req := entity.NativeFocusRequest{
		Heavyweight:         heavy,
		Lightweight:         target,
		Temporary:           opts.Temporary,
		WindowChangeAllowed: opts.WindowChangeAllowed,
		When:                when,
		Cause:               opts.Cause,
	}

	// Remembered even if the request fails, so window activation can come back to it.
	m.state.Recent().Set(m.tree.TopLevel(target), target)

	if m.opts.SyncLightweightRequests {
		if events, handled := m.gate.SynchronousLightweightTransfer(ctx, req); handled {
			if len(events) == 0 {
				m.keys.ReleaseHeldEvents(when, target)
				return false, nil
			}
			return true, m.dispatchAll(ctx, events)
		}
	}

	ok, err := m.peer.RequestFocus(ctx, req, m.gate)
	if err != nil || !ok {
		m.keys.ReleaseHeldEvents(when, target)
	}
	if err != nil {
		return false, fmt.Errorf("request focus %s: %w", target, err)
	}
	return ok, nil
}

// RequestFocusSync performs a synchronous lightweight transfer to target. It
// returns false when synchronous transfers are disabled or do not apply, or
// when target already owns focus.
func (m *Manager) RequestFocusSync(ctx context.Context, target entity.ElementID, temporary bool) (bool, error) {
	ctx = m.logCtx(ctx)
	if err := m.authorize(ctx, port.ActionRequestFocus); err != nil {
		return false, err
	}
	if !m.opts.SyncLightweightRequests {
		return false, nil
	}
	if !m.tree.IsFocusable(target) {
		return false, fmt.Errorf("request focus %s: %w", target, ErrNotFocusable)
	}
	heavy := m.tree.NativeContainer(target)
	if heavy.IsNone() {
		return false, fmt.Errorf("request focus %s: %w", target, ErrNotDisplayable)
	}

	events, handled := m.gate.SynchronousLightweightTransfer(ctx, entity.NativeFocusRequest{
		Heavyweight: heavy,
		Lightweight: target,
		Temporary:   temporary,
		When:        m.opts.Clock(),
	})
	if !handled || len(events) == 0 {
		return false, nil
	}
	return true, m.dispatchAll(ctx, events)
}

func (m *Manager) dispatchAll(ctx context.Context, events []entity.FocusEvent) error {
	var caught error
	for _, ev := range events {
		caught = keepLatest(ctx, caught, m.dispatchFocus(ctx, ev))
	}
	return caught
}

// ClearGlobalFocusOwner drops focus from whatever element owns it. The
// change completes when the native layer reports the focus loss.
func (m *Manager) ClearGlobalFocusOwner(ctx context.Context) error {
	ctx = m.logCtx(ctx)
	if err := m.authorize(ctx, port.ActionClearFocusOwner); err != nil {
		return err
	}
	return m.clearGlobalFocusOwnerErr(ctx)
}

func (m *Manager) clearGlobalFocusOwnerErr(ctx context.Context) error {
	if err := m.peer.ClearGlobalFocusOwner(ctx, m.gate); err != nil {
		return fmt.Errorf("clear global focus owner: %w", err)
	}
	return nil
}

// clearGlobalFocusOwner is the unchecked variant used when restoring focus fails.
func (m *Manager) clearGlobalFocusOwner(ctx context.Context) {
	if err := m.clearGlobalFocusOwnerErr(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("cannot clear focus owner")
	}
}

// ClearFocusOwner clears the focus owner of this context, if there is one.
func (m *Manager) ClearFocusOwner(ctx context.Context) error {
	if m.state.FocusOwner().IsNone() {
		return nil
	}
	return m.ClearGlobalFocusOwner(ctx)
}

// SetCurrentFocusCycleRoot moves the focus traversal cycle to root.
func (m *Manager) SetCurrentFocusCycleRoot(ctx context.Context, root entity.ElementID) error {
	ctx = m.logCtx(ctx)
	if err := m.authorize(ctx, port.ActionSetFocusState); err != nil {
		return err
	}
	return m.state.SetCurrentFocusCycleRoot(ctx, root)
}

// Dispatch is the native layer's entry point for raw focus, window and key
// events. The returned error is the last listener failure of the dispatch.
func (m *Manager) Dispatch(ctx context.Context, ev entity.Event) error {
	if m.disposed.Load() {
		return ErrManagerDisposed
	}
	ctx = m.logCtx(m.detach(ctx))

	var err error
	switch e := ev.(type) {
	case entity.FocusEvent:
		err = m.dispatchFocus(ctx, e)
	case entity.WindowEvent:
		err = m.handleWindow(ctx, e)
	case entity.KeyEvent:
		err = m.dispatchKey(ctx, e)
	default:
		logging.FromContext(ctx).Debug().Type("event", ev).Msg("ignoring unsupported event")
		return nil
	}
	return keepLatest(ctx, err, m.pumpApprovedKeys(ctx))
}

// dispatchFocus routes a focus event through suppression, replay draining and
// retargeting before the default handling.
func (m *Manager) dispatchFocus(ctx context.Context, ev entity.FocusEvent) error {
	if m.retarget.ConsumeSuppressed(ctx, ev) {
		return m.handleFocus(ctx, ev)
	}

	var caught error
	if !inReplay(ctx) {
		caught = m.runReplay(ctx)
	}
	out, _ := m.retarget.Retarget(ctx, ev)
	return keepLatest(ctx, caught, m.handleFocus(ctx, out))
}

func (m *Manager) scheduleReplay(ctx context.Context) {
	ctx = m.detach(ctx)
	m.replays.Post(taskReplay, func() {
		// Keys held for a replayed target are released by its gained event.
		err := keepLatest(ctx, m.runReplay(ctx), m.pumpApprovedKeys(ctx))
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("lightweight replay listener failure")
		}
	})
}

// runReplay turns the lightweight requests left over by the last confirmed
// transfer into focus lost/gained pairs, in request order.
func (m *Manager) runReplay(ctx context.Context) error {
	entries := m.queue.takeReplay()
	if len(entries) == 0 {
		return nil
	}
	defer m.queue.finishReplay()

	log := logging.FromContext(ctx)
	log.Debug().Int("entries", len(entries)).Msg("replaying lightweight requests")

	var (
		caught error
		last   entity.ElementID
	)
	for i, lw := range entries {
		rctx := withReplay(ctx, i == len(entries)-1)
		current := m.state.FocusOwner()

		if !current.IsNone() {
			lost := entity.NewFocusLost(current, lw.Target, lw.Temporary, lw.Cause)
			lost.When = m.opts.Clock()
			caught = keepLatest(ctx, caught, m.handleFocus(rctx, lost))
		}

		opposite := current
		if opposite.IsNone() {
			opposite = last
		}
		gained := entity.NewFocusGained(lw.Target, opposite, lw.Temporary, lw.Cause)
		gained.When = m.opts.Clock()
		caught = keepLatest(ctx, caught, m.handleFocus(rctx, gained))

		if m.state.FocusOwner() == lw.Target {
			last = lw.Target
		}
	}
	return caught
}

// RunPendingReplay synchronously replays pending lightweight requests, if any.
func (m *Manager) RunPendingReplay(ctx context.Context) error {
	return m.runReplay(m.logCtx(ctx))
}

// DispatchKeyEvent routes a key event: type-ahead first, then the dispatcher
// chain, the focus owner and finally the post-processor chain.
func (m *Manager) DispatchKeyEvent(ctx context.Context, ev entity.KeyEvent) error {
	return m.Dispatch(ctx, ev)
}

func (m *Manager) dispatchKey(ctx context.Context, ev entity.KeyEvent) error {
	if m.keys.Offer(ev) {
		logging.FromContext(ctx).Trace().Str("key", ev.String()).Msg("key event held for pending focus transfer")
		return nil
	}
	caught := m.pumpApprovedKeys(ctx)
	return keepLatest(ctx, caught, m.routeKey(ctx, ev))
}

func (m *Manager) pumpApprovedKeys(ctx context.Context) error {
	var caught error
	for _, ev := range m.keys.Approved() {
		caught = keepLatest(ctx, caught, m.routeKey(ctx, ev))
	}
	return caught
}

func (m *Manager) routeKey(ctx context.Context, ev entity.KeyEvent) error {
	if m.dispatchers.Dispatch(ctx, ev) {
		return nil
	}
	target := m.state.FocusOwner()
	if target.IsNone() {
		target = m.state.FocusedWindow()
	}
	var err error
	if !target.IsNone() {
		err = m.deliver(ctx, target, ev, func() error { return m.sink.DeliverKey(ctx, ev, target) })
	}
	m.postProcessors.Dispatch(ctx, ev)
	return err
}

// AddKeyEventDispatcher appends d to the chain consulted before the focus
// owner. The returned function removes it.
func (m *Manager) AddKeyEventDispatcher(ctx context.Context, d KeyEventDispatcher) (func(), error) {
	if err := m.authorize(ctx, port.ActionKeyEventRouting); err != nil {
		return nil, err
	}
	return m.dispatchers.Add(d), nil
}

// AddKeyEventPostProcessor appends p to the chain consulted after the focus
// owner. The returned function removes it.
func (m *Manager) AddKeyEventPostProcessor(ctx context.Context, p KeyEventDispatcher) (func(), error) {
	if err := m.authorize(ctx, port.ActionKeyEventRouting); err != nil {
		return nil, err
	}
	return m.postProcessors.Add(p), nil
}

// EnqueueKeyEvents holds key events newer than when until target gains focus.
func (m *Manager) EnqueueKeyEvents(when time.Time, target entity.ElementID) {
	if target.IsNone() {
		return
	}
	m.keys.HoldEventsUntil(when, target)
}

// DequeueKeyEvents releases the hold placed by EnqueueKeyEvents. A zero time
// releases the oldest hold for target.
func (m *Manager) DequeueKeyEvents(when time.Time, target entity.ElementID) {
	if target.IsNone() {
		return
	}
	m.keys.ReleaseHeldEvents(when, target)
}

// DiscardKeyEvents drops every hold for target and the key events it held.
func (m *Manager) DiscardKeyEvents(target entity.ElementID) {
	if target.IsNone() {
		return
	}
	m.keys.DiscardHeldEvents(target)
}

// ElementDestroyed forgets id: recent-owner entries and held key events go,
// and focus is cleared when id owned it.
func (m *Manager) ElementDestroyed(ctx context.Context, id entity.ElementID) error {
	ctx = m.logCtx(ctx)
	m.state.Recent().Forget(id)
	m.state.Recent().ForgetWindow(id)
	m.keys.DiscardHeldEvents(id)

	m.mu.Lock()
	if m.realOppositeComponent == id {
		m.realOppositeComponent = entity.None
	}
	if m.realOppositeWindow == id {
		m.realOppositeWindow = entity.None
	}
	m.mu.Unlock()

	if m.state.FocusOwner() == id {
		return m.ClearGlobalFocusOwner(ctx)
	}
	return nil
}

// deliver calls fn, turning a returned error or a panic into a ListenerError.
func (m *Manager) deliver(ctx context.Context, target entity.ElementID, ev entity.Event, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ListenerError{Target: target, Event: ev, Panic: r}
		}
		if err != nil {
			m.metrics.IncListenerFailure()
			logging.FromContext(ctx).Warn().Err(err).Str("target", target.String()).Msg("listener failure")
		}
	}()
	if e := fn(); e != nil {
		return &ListenerError{Target: target, Event: ev, Err: e}
	}
	return nil
}

// keepLatest retains the most recent listener failure of a batch and logs the
// one it replaces.
func keepLatest(ctx context.Context, prev, next error) error {
	if next == nil {
		return prev
	}
	if prev != nil {
		logging.FromContext(ctx).Error().Err(prev).Msg("listener failure superseded by a later one")
	}
	return next
}

// Dispose stops the manager. Pending replays are dropped and further calls
// fail with ErrManagerDisposed.
func (m *Manager) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.replays.Destroy()
}

// Disposed reports whether Dispose was called.
func (m *Manager) Disposed() bool { return m.disposed.Load() }
