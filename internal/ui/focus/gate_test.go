package focus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/domain/entity"
)

func TestGate_RedundantRequestFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "W2")
	h.sink.reset()

	result := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "W2"})

	assert.Equal(t, entity.GateFailure, result)
	assert.Zero(t, h.m.Queue().Len())
	assert.Empty(t, h.posted)

	ok, err := h.m.RequestFocus(ctx, "W2", RequestOptions{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, h.m.Queue().Len())
}

func TestGate_TransferInsideNativeOwnerIsHandled(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")
	h.sink.reset()

	result := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{
		Heavyweight: "W1",
		Lightweight: "B",
		Cause:       entity.CauseTraversal,
	})

	require.Equal(t, entity.GateHandled, result)
	head := h.m.Queue().PeekHead()
	require.NotNil(t, head)
	assert.Equal(t, []entity.ElementID{"B"}, lightweightTargets(head))

	require.Len(t, h.posted, 2)
	lost := h.posted[0].(entity.FocusEvent)
	gained := h.posted[1].(entity.FocusEvent)
	assert.Equal(t, entity.NewFocusLost("A", "B", false, entity.CauseTraversal), lost)
	assert.Equal(t, entity.NewFocusGained("B", "A", false, entity.CauseTraversal), gained)

	h.flush(ctx)
	assert.Equal(t, entity.ElementID("B"), h.m.FocusOwner())
	assert.Zero(t, h.m.Queue().Len())
}

func TestGate_NestsIntoPendingHeavyweight(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")

	first := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "H4", WindowChangeAllowed: true})
	second := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "H4", Lightweight: "D"})

	assert.Equal(t, entity.GateProceed, first)
	assert.Equal(t, entity.GateHandled, second)
	snap := h.m.Queue().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, []entity.ElementID{"H4", "D"}, lightweightTargets(snap[0]))
}

func TestGate_WindowChange(t *testing.T) {
	tests := []struct {
		name    string
		allowed bool
		want    entity.GateResult
		wantLen int
	}{
		{name: "refused when not allowed", allowed: false, want: entity.GateFailure, wantLen: 0},
		{name: "proceeds when allowed", allowed: true, want: entity.GateProceed, wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, heavyPanels())
			h.focus(ctx, "H1")

			result := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{
				Heavyweight:         "H4",
				WindowChangeAllowed: tt.allowed,
			})

			assert.Equal(t, tt.want, result)
			assert.Equal(t, tt.wantLen, h.m.Queue().Len())
		})
	}
}

func TestGate_SameWindowTransferProceeds(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")

	result := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "H2"})

	assert.Equal(t, entity.GateProceed, result)
	assert.Equal(t, 1, h.m.Queue().Len())
}

func TestGate_WindowCheckLooksPastClearSentinel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")

	require.Equal(t, entity.GateProceed,
		h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "H4", WindowChangeAllowed: true}))
	_, ok := h.m.Gate().MarkClearGlobalFocusOwner(ctx)
	require.True(t, ok)

	// Measured against the pending H4 request in W2, not the native window W1.
	result := h.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "H4", Lightweight: "D"})

	assert.Equal(t, entity.GateProceed, result)
	snap := h.m.Queue().Snapshot()
	require.Len(t, snap, 3)
	assert.True(t, snap[1].IsClearSentinel())
	assert.Equal(t, []entity.ElementID{"D"}, lightweightTargets(snap[2]))
}

func TestGate_RetractAfterNativeRefusal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, heavyPanels())
	h.focus(ctx, "H1")
	h.peer.refuse = true

	ok, err := h.m.RequestFocus(ctx, "H2", RequestOptions{})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, h.m.Queue().Len())
	assert.Equal(t, entity.ElementID("H1"), h.m.FocusOwner())
}

func TestGate_MarkClearGlobalFocusOwner(t *testing.T) {
	ctx := context.Background()
	tree := heavyPanels().popup("P1", "W2").light("E", "P1")
	h := newHarness(t, tree)
	h.focus(ctx, "H1")

	window, ok := h.m.Gate().MarkClearGlobalFocusOwner(ctx)
	require.True(t, ok)
	assert.Equal(t, entity.ElementID("W1"), window, "falls back to the native focused window")

	_, ok = h.m.Gate().MarkClearGlobalFocusOwner(ctx)
	assert.False(t, ok)

	h2 := newHarness(t, tree)
	h2.focus(ctx, "H1")
	h2.m.Gate().RequestNativeFocus(ctx, entity.NativeFocusRequest{Heavyweight: "P1", Lightweight: "E", WindowChangeAllowed: true})

	window, ok = h2.m.Gate().MarkClearGlobalFocusOwner(ctx)
	require.True(t, ok)
	assert.Equal(t, entity.ElementID("W2"), window, "a popup's owning frame is cleared")
}

func TestGate_SynchronousLightweightTransfer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, singleWindow())
	h.focus(ctx, "A")

	events, handled := h.m.Gate().SynchronousLightweightTransfer(ctx, entity.NativeFocusRequest{Heavyweight: "W1", Lightweight: "A"})
	assert.True(t, handled, "a redundant request is handled")
	assert.Empty(t, events)
	assert.Zero(t, h.m.Queue().Len())

	events, handled = h.m.Gate().SynchronousLightweightTransfer(ctx, entity.NativeFocusRequest{Heavyweight: "W1", Lightweight: "B"})
	require.True(t, handled)
	require.Len(t, events, 2)
	assert.Equal(t, entity.FocusLost, events[0].Kind)
	assert.Equal(t, entity.ElementID("A"), events[0].Source)
	assert.Equal(t, entity.FocusGained, events[1].Kind)
	assert.Equal(t, entity.ElementID("B"), events[1].Source)
	assert.Equal(t, 1, h.m.Queue().Len())

	_, handled = h.m.Gate().SynchronousLightweightTransfer(ctx, entity.NativeFocusRequest{Heavyweight: "W1", Lightweight: "C"})
	assert.False(t, handled, "refused while requests are pending")
}

func TestIsTemporary(t *testing.T) {
	tree := heavyPanels().add("orphan", entity.None, fakeNode{focusable: true})

	tests := []struct {
		name     string
		to, from entity.ElementID
		want     bool
	}{
		{name: "same window", to: "H1", from: "H2", want: false},
		{name: "across windows", to: "H4", from: "H1", want: true},
		{name: "both outside windows", to: "orphan", from: entity.None, want: false},
		{name: "target outside windows", to: "orphan", from: "H1", want: true},
		{name: "source outside windows", to: "H1", from: "orphan", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTemporary(tree, tt.to, tt.from))
		})
	}
}
