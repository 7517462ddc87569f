package focus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/application/port/mocks"
	"github.com/bnema/focuscore/internal/domain/entity"
)

func TestNewManager_RequiresCollaborators(t *testing.T) {
	tree := singleWindow()
	full := Deps{
		Tree:   tree,
		Peer:   &fakePeer{tree: tree},
		Sink:   &recordingSink{},
		Poster: port.EventPosterFunc(func(context.Context, entity.Event) {}),
	}
	post := func(func()) {}

	tests := []struct {
		name   string
		mutate func(d *Deps, o *Options)
	}{
		{name: "tree", mutate: func(d *Deps, _ *Options) { d.Tree = nil }},
		{name: "peer", mutate: func(d *Deps, _ *Options) { d.Peer = nil }},
		{name: "sink", mutate: func(d *Deps, _ *Options) { d.Sink = nil }},
		{name: "poster", mutate: func(d *Deps, _ *Options) { d.Poster = nil }},
		{name: "post", mutate: func(_ *Deps, o *Options) { o.Post = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, opts := full, DefaultOptions(post)
			tt.mutate(&deps, &opts)
			_, err := NewManager("test", deps, opts)
			assert.ErrorContains(t, err, tt.name)
		})
	}

	m, err := NewManager("", full, DefaultOptions(post))
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultContext, m.ContextID())
}

func TestManager_CoalescedRequestsReplayInOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())

	ok, err := h.m.RequestFocus(ctx, "A", RequestOptions{WindowChangeAllowed: true})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = h.m.RequestFocus(ctx, "B", RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)

	snap := h.m.Queue().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, entity.ElementID("W1"), snap[0].Target)
	assert.Equal(t, []entity.ElementID{"A", "B"}, lightweightTargets(snap[0]))

	h.confirmNative(ctx)

	assert.Equal(t, entity.ElementID("A"), h.m.FocusOwner())
	assert.Zero(t, h.m.Queue().Len())
	assert.Equal(t, 1, h.m.Queue().PendingReplay())
	require.Len(t, h.sink.focusEvents(), 1)

	h.flush(ctx)

	assert.Equal(t, entity.ElementID("B"), h.m.FocusOwner())
	assert.Equal(t, entity.ElementID("B"), h.m.PermanentFocusOwner())
	assert.Zero(t, h.m.Queue().PendingReplay())

	got := h.sink.focusEvents()
	require.Len(t, got, 3)
	assert.Equal(t, entity.FocusGained, got[0].Kind)
	assert.Equal(t, entity.ElementID("A"), got[0].Source)
	assert.Equal(t, entity.FocusLost, got[1].Kind)
	assert.Equal(t, entity.ElementID("A"), got[1].Source)
	assert.Equal(t, entity.ElementID("B"), got[1].Opposite)
	assert.Equal(t, entity.FocusGained, got[2].Kind)
	assert.Equal(t, entity.ElementID("B"), got[2].Source)
	assert.Equal(t, entity.ElementID("A"), got[2].Opposite)
}

func TestManager_FIFOConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		requests []entity.ElementID
	}{
		{name: "single", requests: []entity.ElementID{"H1"}},
		{name: "three panels", requests: []entity.ElementID{"H1", "H2", "H3"}},
		{name: "revisiting", requests: []entity.ElementID{"H2", "H1", "H3", "H1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, heavyPanels())

			for _, target := range tt.requests {
				ok, err := h.m.RequestFocus(ctx, target, RequestOptions{WindowChangeAllowed: true})
				require.NoError(t, err)
				require.True(t, ok)
			}
			require.Equal(t, len(tt.requests), h.m.Queue().Len())

			for range tt.requests {
				h.confirmNative(ctx)
				h.flush(ctx)
			}

			assert.Zero(t, h.m.Queue().Len())
			assert.Equal(t, tt.requests[len(tt.requests)-1], h.m.FocusOwner())
		})
	}
}

func TestManager_GainedBeforeLostIsCompensated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")
	h.sink.reset()

	ok, err := h.m.RequestFocus(ctx, "H2", RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)

	// The native layer reports the gain first.
	h.peer.owner = "H2"
	h.peer.proceeded = nil
	require.NoError(t, h.m.Dispatch(ctx, entity.NewFocusGained("H2", "H1", false, entity.CauseNativeSystem)))

	got := h.sink.focusEvents()
	require.Len(t, got, 2)
	assert.Equal(t, entity.FocusLost, got[0].Kind)
	assert.Equal(t, entity.ElementID("H1"), got[0].Source)
	assert.Equal(t, entity.ElementID("H2"), got[0].Opposite)
	assert.Equal(t, entity.FocusGained, got[1].Kind)
	assert.Equal(t, entity.ElementID("H2"), got[1].Source)
	assert.True(t, h.m.Queue().PendingNewOwner().IsNone())

	// The late native lost changes nothing.
	require.NoError(t, h.m.Dispatch(ctx, entity.NewFocusLost("H1", "H2", false, entity.CauseNativeSystem)))
	assert.Len(t, h.sink.focusEvents(), 2)
	assert.Equal(t, entity.ElementID("H2"), h.m.FocusOwner())
}

func TestManager_DetachDropsDispatchMarkers(t *testing.T) {
	h := newHarness(t, singleWindow())

	tagged := h.m.logCtx(context.Background())
	marked := withSend(withReplay(tagged, false))
	require.True(t, inReplay(marked))
	require.True(t, inSend(marked))

	got := h.m.detach(marked)
	assert.False(t, inReplay(got))
	assert.False(t, inSend(got))
	assert.True(t, restoreAllowed(got))
	assert.Same(t, tagged, h.m.logCtx(tagged))
	assert.Equal(t, h.m, got.Value(managerKey{}))
}

func TestManager_VetoedTransferRollsBack(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")
	h.sink.reset()

	h.m.OnVetoableChange(PropFocusOwner, func(_ context.Context, c PropertyChange) error {
		if c.New == entity.ElementID("B") {
			return errors.New("B is read-only")
		}
		return nil
	})

	ok, err := h.m.RequestFocus(ctx, "B", RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	h.flush(ctx)

	assert.Equal(t, entity.ElementID("A"), h.m.FocusOwner())
	assert.Equal(t, entity.ElementID("A"), h.m.PermanentFocusOwner())
	assert.Zero(t, h.m.Queue().Len())

	got := h.sink.focusEvents()
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, entity.FocusGained, last.Kind)
	assert.Equal(t, entity.ElementID("A"), last.Source)
	assert.Equal(t, entity.CauseRollback, last.Cause)
}

func TestManager_UnfocusableTargetRestoresFocus(t *testing.T) {
	ctx := context.Background()
	tree := singleWindow()
	h := newHarness(t, tree)
	h.focus(ctx, "A")

	ok, err := h.m.RequestFocus(ctx, "B", RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	// B goes away between the request and its delivery.
	tree.setFocusable("B", false)
	h.flush(ctx)

	assert.Equal(t, entity.ElementID("A"), h.m.FocusOwner())
	assert.Zero(t, h.m.Queue().Len())
}

func TestManager_ListenerFailuresDoNotStopDelivery(t *testing.T) {
	ctx := context.Background()
	metrics := &recordingMetrics{}
	h := newHarness(t, heavyPanels(), func(d *Deps, _ *Options) { d.Metrics = metrics })
	h.focus(ctx, "H1")
	h.sink.reset()

	h.sink.focusHook = func(ev entity.FocusEvent) error {
		if ev.Kind == entity.FocusLost {
			return errors.New("lost listener failed")
		}
		panic("gained listener exploded")
	}

	_, err := h.m.RequestFocus(ctx, "H2", RequestOptions{})
	require.NoError(t, err)
	h.peer.owner = "H2"
	err = h.m.Dispatch(ctx, entity.NewFocusGained("H2", "H1", false, entity.CauseNativeSystem))

	var le *ListenerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "gained listener exploded", le.Panic)
	assert.Equal(t, entity.ElementID("H2"), le.Target)
	assert.Len(t, h.sink.focusEvents(), 2, "the gained event is delivered after the lost listener failed")
	assert.Equal(t, entity.ElementID("H2"), h.m.FocusOwner())
	assert.Equal(t, 2, metrics.listenFail)
}

func TestManager_CrossWindowTransfer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")
	h.sink.reset()

	ok, err := h.m.RequestFocus(ctx, "D", RequestOptions{})
	require.NoError(t, err)
	assert.False(t, ok, "window change not allowed")

	ok, err = h.m.RequestFocus(ctx, "D", RequestOptions{WindowChangeAllowed: true})
	require.NoError(t, err)
	require.True(t, ok)
	h.confirmNative(ctx)
	h.flush(ctx)

	assert.Equal(t, entity.ElementID("D"), h.m.FocusOwner())
	assert.Equal(t, entity.ElementID("W2"), h.m.FocusedWindow())
	assert.Equal(t, entity.ElementID("W2"), h.m.ActiveWindow())
	assert.Equal(t, entity.ElementID("H1"), h.m.State().Recent().TemporaryLost("W1"))

	var windowKinds []entity.WindowKind
	for _, ev := range h.sink.events {
		if we, ok := ev.(entity.WindowEvent); ok {
			windowKinds = append(windowKinds, we.Kind)
		}
	}
	assert.Equal(t, []entity.WindowKind{
		entity.WindowLostFocus,
		entity.WindowDeactivated,
		entity.WindowActivated,
		entity.WindowGainedFocus,
	}, windowKinds)

	got := h.sink.focusEvents()
	require.Len(t, got, 2)
	assert.True(t, got[0].Temporary, "losing focus to another window is temporary")
	assert.Equal(t, entity.ElementID("D"), got[0].Opposite)
	assert.False(t, got[1].Temporary)

	// Back to W1: the element that lost focus temporarily gets it back.
	h.peer.window = "W1"
	require.NoError(t, h.m.Dispatch(ctx, entity.WindowEvent{Kind: entity.WindowGainedFocus, Window: "W1", Opposite: "W2"}))
	for len(h.peer.proceeded) > 0 {
		h.confirmNative(ctx)
	}
	h.flush(ctx)

	assert.Equal(t, entity.ElementID("H1"), h.m.FocusOwner())
	assert.Equal(t, entity.ElementID("W1"), h.m.FocusedWindow())
	assert.Equal(t, entity.ElementID("D"), h.m.State().Recent().TemporaryLost("W2"))
	assert.True(t, h.m.State().Recent().TemporaryLost("W1").IsNone())
}

func TestManager_SynchronousLightweightRequests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow(), func(_ *Deps, o *Options) { o.SyncLightweightRequests = true })
	h.focus(ctx, "A")

	ok, err := h.m.RequestFocus(ctx, "B", RequestOptions{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ElementID("B"), h.m.FocusOwner(), "no native round-trip needed")
	assert.Empty(t, h.posted)
	assert.Zero(t, h.m.Queue().Len())

	ok, err = h.m.RequestFocusSync(ctx, "C", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ElementID("C"), h.m.FocusOwner())
}

func TestManager_SynchronousRedundantRequest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow(), func(_ *Deps, o *Options) { o.SyncLightweightRequests = true })
	h.focus(ctx, "A")
	h.sink.reset()

	ok, err := h.m.RequestFocus(ctx, "A", RequestOptions{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.m.RequestFocusSync(ctx, "A", false)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, entity.ElementID("A"), h.m.FocusOwner())
	assert.Empty(t, h.sink.focusEvents())
	assert.Zero(t, h.m.Queue().Len())
}

func TestManager_RequestFocusSyncDisabled(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")

	ok, err := h.m.RequestFocusSync(ctx, "B", false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, entity.ElementID("A"), h.m.FocusOwner())
}

func TestManager_RequestFocusValidation(t *testing.T) {
	ctx := context.Background()
	tree := singleWindow().add("floating", entity.None, fakeNode{focusable: true})
	tree.setFocusable("C", false)
	h := newHarness(t, tree)

	tests := []struct {
		name    string
		target  entity.ElementID
		wantErr error
	}{
		{name: "unfocusable", target: "C", wantErr: ErrNotFocusable},
		{name: "unknown", target: "ghost", wantErr: ErrNotFocusable},
		{name: "no native container", target: "floating", wantErr: ErrNotDisplayable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.m.RequestFocus(ctx, tt.target, RequestOptions{WindowChangeAllowed: true})
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, h.m.Queue().Len())
}

func TestManager_Unauthorized(t *testing.T) {
	ctx := context.Background()
	auth := mocks.NewMockAuthorizer(t)
	auth.EXPECT().Authorize(mock.Anything, port.ActionRequestFocus).Return(errors.New("sandboxed")).Once()
	auth.EXPECT().Authorize(mock.Anything, port.ActionKeyEventRouting).Return(errors.New("sandboxed")).Once()

	h := newHarness(t, singleWindow(), func(d *Deps, _ *Options) { d.Authorizer = auth })

	ok, err := h.m.RequestFocus(ctx, "A", RequestOptions{WindowChangeAllowed: true})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorContains(t, err, "sandboxed")
	assert.Zero(t, h.m.Queue().Len())

	_, err = h.m.AddKeyEventDispatcher(ctx, KeyEventDispatcherFunc(func(context.Context, entity.KeyEvent) bool { return true }))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestManager_ElementDestroyedClearsFocus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")

	require.NoError(t, h.m.ElementDestroyed(ctx, "A"))
	assert.Equal(t, []entity.ElementID{"W1"}, h.peer.cleared)
	assert.True(t, h.m.MostRecentFocusOwner("W1").IsNone())

	require.NoError(t, h.m.Dispatch(ctx, entity.NewFocusLost("W1", entity.None, false, entity.CauseNativeSystem)))

	assert.True(t, h.m.FocusOwner().IsNone())
	assert.True(t, h.m.PermanentFocusOwner().IsNone())
	assert.Zero(t, h.m.Queue().Len())
	got := h.sink.focusEvents()
	assert.Equal(t, entity.CauseClearGlobalFocusOwner, got[len(got)-1].Cause)
}

func TestManager_ClearFocusOwnerWithoutOwnerIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())

	require.NoError(t, h.m.ClearFocusOwner(ctx))
	assert.Empty(t, h.peer.cleared)
	assert.Zero(t, h.m.Queue().Len())
}

func TestManager_KeyRouting(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")

	var post []entity.KeyEvent
	_, err := h.m.AddKeyEventDispatcher(ctx, KeyEventDispatcherFunc(func(_ context.Context, ev entity.KeyEvent) bool {
		return ev.Code == 27
	}))
	require.NoError(t, err)
	_, err = h.m.AddKeyEventPostProcessor(ctx, KeyEventDispatcherFunc(func(_ context.Context, ev entity.KeyEvent) bool {
		post = append(post, ev)
		return false
	}))
	require.NoError(t, err)

	typed := entity.KeyEvent{Code: 65, Rune: 'a', Pressed: true}
	escape := entity.KeyEvent{Code: 27, Pressed: true}
	require.NoError(t, h.m.DispatchKeyEvent(ctx, typed))
	require.NoError(t, h.m.DispatchKeyEvent(ctx, escape))

	assert.Equal(t, []keyDelivery{{ev: typed, target: "A"}}, h.sink.keys)
	assert.Equal(t, []entity.KeyEvent{typed}, post)
}

func TestManager_HeldKeysAreDeliveredFirst(t *testing.T) {
	ctx := context.Background()
	keys := mocks.NewMockKeyEventQueue(t)
	h := newHarness(t, singleWindow(), func(d *Deps, _ *Options) { d.Keys = keys })
	require.NoError(t, h.m.State().SetFocusOwner(ctx, "A"))

	held := entity.KeyEvent{Code: 65, Rune: 'a', Pressed: true}
	next := entity.KeyEvent{Code: 66, Rune: 'b', Pressed: true}
	keys.EXPECT().Offer(held).Return(true).Once()
	keys.EXPECT().Approved().Return(nil).Once()
	keys.EXPECT().Offer(next).Return(false).Once()
	keys.EXPECT().Approved().Return([]entity.KeyEvent{held}).Once()
	keys.EXPECT().Approved().Return(nil).Once()

	require.NoError(t, h.m.DispatchKeyEvent(ctx, held))
	assert.Empty(t, h.sink.keys)

	require.NoError(t, h.m.DispatchKeyEvent(ctx, next))
	assert.Equal(t, []keyDelivery{{ev: held, target: "A"}, {ev: next, target: "A"}}, h.sink.keys)
}

func TestManager_DisposedManagerRefusesWork(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.m.Dispose()
	h.m.Dispose()

	assert.True(t, h.m.Disposed())
	_, err := h.m.RequestFocus(ctx, "A", RequestOptions{})
	assert.ErrorIs(t, err, ErrManagerDisposed)
	assert.ErrorIs(t, h.m.Dispatch(ctx, entity.KeyEvent{}), ErrManagerDisposed)
}
