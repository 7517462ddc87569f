package focus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/ui/mainloop"
)

type fakeNode struct {
	parent    entity.ElementID
	window    bool
	heavy     bool
	focusable bool
	cycleRoot bool
	// owner is the frame owning a popup window.
	owner entity.ElementID
}

// fakeTree is an in-memory hierarchy. Traversal order is pre-order in
// insertion order and wraps around.
type fakeTree struct {
	nodes    map[entity.ElementID]*fakeNode
	children map[entity.ElementID][]entity.ElementID
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		nodes:    make(map[entity.ElementID]*fakeNode),
		children: make(map[entity.ElementID][]entity.ElementID),
	}
}

func (t *fakeTree) add(id, parent entity.ElementID, n fakeNode) *fakeTree {
	n.parent = parent
	t.nodes[id] = &n
	if !parent.IsNone() {
		t.children[parent] = append(t.children[parent], id)
	}
	return t
}

func (t *fakeTree) window(id entity.ElementID) *fakeTree {
	return t.add(id, entity.None, fakeNode{window: true, heavy: true, focusable: true, cycleRoot: true})
}

func (t *fakeTree) popup(id, owner entity.ElementID) *fakeTree {
	return t.add(id, entity.None, fakeNode{window: true, heavy: true, focusable: true, cycleRoot: true, owner: owner})
}

func (t *fakeTree) heavy(id, parent entity.ElementID) *fakeTree {
	return t.add(id, parent, fakeNode{heavy: true, focusable: true})
}

func (t *fakeTree) light(id, parent entity.ElementID) *fakeTree {
	return t.add(id, parent, fakeNode{focusable: true})
}

func (t *fakeTree) container(id, parent entity.ElementID) *fakeTree {
	return t.add(id, parent, fakeNode{cycleRoot: true})
}

func (t *fakeTree) setFocusable(id entity.ElementID, focusable bool) {
	t.nodes[id].focusable = focusable
}

func (t *fakeTree) NativeContainer(id entity.ElementID) entity.ElementID {
	for cur := id; !cur.IsNone(); cur = t.nodes[cur].parent {
		n, ok := t.nodes[cur]
		if !ok {
			return entity.None
		}
		if n.heavy {
			return cur
		}
	}
	return entity.None
}

func (t *fakeTree) IsHeavyweight(id entity.ElementID) bool {
	n, ok := t.nodes[id]
	return ok && n.heavy
}

func (t *fakeTree) TopLevel(id entity.ElementID) entity.ElementID {
	for cur := id; !cur.IsNone(); {
		n, ok := t.nodes[cur]
		if !ok {
			return entity.None
		}
		if n.window {
			return cur
		}
		cur = n.parent
	}
	return entity.None
}

func (t *fakeTree) IsWindow(id entity.ElementID) bool {
	n, ok := t.nodes[id]
	return ok && n.window
}

func (t *fakeTree) IsFocusableWindow(id entity.ElementID) bool {
	n, ok := t.nodes[id]
	return ok && n.window && n.focusable
}

func (t *fakeTree) ActivatableWindow(window entity.ElementID) entity.ElementID {
	n, ok := t.nodes[window]
	if !ok {
		return entity.None
	}
	if !n.owner.IsNone() {
		return n.owner
	}
	return window
}

func (t *fakeTree) IsFocusable(id entity.ElementID) bool {
	n, ok := t.nodes[id]
	return ok && n.focusable
}

func (t *fakeTree) IsFocusCycleRoot(id entity.ElementID) bool {
	n, ok := t.nodes[id]
	return ok && n.cycleRoot
}

func (t *fakeTree) FocusCycleRootAncestor(id entity.ElementID) entity.ElementID {
	n, ok := t.nodes[id]
	if !ok {
		return entity.None
	}
	for cur := n.parent; !cur.IsNone(); cur = t.nodes[cur].parent {
		if t.nodes[cur].cycleRoot {
			return cur
		}
	}
	return entity.None
}

func (t *fakeTree) cycle(root entity.ElementID) []entity.ElementID {
	var out []entity.ElementID
	var walk func(entity.ElementID)
	walk = func(id entity.ElementID) {
		for _, c := range t.children[id] {
			if t.nodes[c].focusable {
				out = append(out, c)
			}
			// A nested cycle root is traversed, its contents are not.
			if !t.nodes[c].cycleRoot {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

func (t *fakeTree) ComponentAfter(root, id entity.ElementID) entity.ElementID {
	order := t.cycle(root)
	for i, c := range order {
		if c == id {
			return order[(i+1)%len(order)]
		}
	}
	return entity.None
}

func (t *fakeTree) ComponentBefore(root, id entity.ElementID) entity.ElementID {
	order := t.cycle(root)
	for i, c := range order {
		if c == id {
			return order[(i+len(order)-1)%len(order)]
		}
	}
	return entity.None
}

func (t *fakeTree) DefaultComponent(root entity.ElementID) entity.ElementID {
	if order := t.cycle(root); len(order) > 0 {
		return order[0]
	}
	return entity.None
}

// fakePeer performs native transfers only when the test plays them with
// harness.confirmNative.
type fakePeer struct {
	tree      *fakeTree
	owner     entity.ElementID
	window    entity.ElementID
	refuse    bool
	proceeded []entity.NativeFocusRequest
	cleared   []entity.ElementID
}

func (p *fakePeer) NativeFocusOwner() entity.ElementID    { return p.owner }
func (p *fakePeer) NativeFocusedWindow() entity.ElementID { return p.window }

func (p *fakePeer) RequestFocus(ctx context.Context, req entity.NativeFocusRequest, gate port.NativeFocusGate) (bool, error) {
	switch gate.RequestNativeFocus(ctx, req) {
	case entity.GateFailure:
		return false, nil
	case entity.GateHandled:
		return true, nil
	}
	if p.refuse {
		gate.RetractNativeFocus(ctx, req.Heavyweight)
		return false, nil
	}
	p.proceeded = append(p.proceeded, req)
	return true, nil
}

func (p *fakePeer) ClearGlobalFocusOwner(ctx context.Context, gate port.NativeFocusGate) error {
	window, ok := gate.MarkClearGlobalFocusOwner(ctx)
	if !ok || window.IsNone() {
		return nil
	}
	p.cleared = append(p.cleared, window)
	return nil
}

// recordingSink keeps every delivered event. focusHook, when set, decides the
// listener outcome of focus events.
type recordingSink struct {
	events    []entity.Event
	keys      []keyDelivery
	focusHook func(ev entity.FocusEvent) error
}

type keyDelivery struct {
	ev     entity.KeyEvent
	target entity.ElementID
}

func (s *recordingSink) DeliverFocus(_ context.Context, ev entity.FocusEvent) error {
	s.events = append(s.events, ev)
	if s.focusHook != nil {
		return s.focusHook(ev)
	}
	return nil
}

func (s *recordingSink) DeliverWindow(_ context.Context, ev entity.WindowEvent) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) DeliverKey(_ context.Context, ev entity.KeyEvent, target entity.ElementID) error {
	s.keys = append(s.keys, keyDelivery{ev: ev, target: target})
	return nil
}

func (s *recordingSink) focusEvents() []entity.FocusEvent {
	var out []entity.FocusEvent
	for _, ev := range s.events {
		if fe, ok := ev.(entity.FocusEvent); ok {
			out = append(out, fe)
		}
	}
	return out
}

func (s *recordingSink) reset() {
	s.events = nil
	s.keys = nil
}

type harness struct {
	t      *testing.T
	tree   *fakeTree
	peer   *fakePeer
	sink   *recordingSink
	loop   *mainloop.Queue
	posted []entity.Event
	m      *Manager
}

func newHarness(t *testing.T, tree *fakeTree, configure ...func(*Deps, *Options)) *harness {
	t.Helper()

	h := &harness{
		t:    t,
		tree: tree,
		peer: &fakePeer{tree: tree},
		sink: &recordingSink{},
		loop: mainloop.NewQueue(),
	}
	deps := Deps{
		Tree: tree,
		Peer: h.peer,
		Sink: h.sink,
		Poster: port.EventPosterFunc(func(_ context.Context, ev entity.Event) {
			h.posted = append(h.posted, ev)
		}),
	}
	opts := DefaultOptions(h.loop.Post)
	var tick int64
	opts.Clock = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}
	for _, fn := range configure {
		fn(&deps, &opts)
	}

	m, err := NewManager("test", deps, opts)
	require.NoError(t, err)
	h.m = m
	return h
}

// flush dispatches posted events and runs main-loop tasks until both are drained.
func (h *harness) flush(ctx context.Context) {
	h.t.Helper()
	for len(h.posted) > 0 || h.loop.Len() > 0 {
		for len(h.posted) > 0 {
			ev := h.posted[0]
			h.posted = h.posted[1:]
			require.NoError(h.t, h.m.Dispatch(ctx, ev))
		}
		h.loop.RunPending()
	}
}

// confirmNative performs the oldest proceeded native transfer and reports it
// the way a native layer would: lost for the old owner, then gained.
func (h *harness) confirmNative(ctx context.Context) {
	h.t.Helper()
	require.NotEmpty(h.t, h.peer.proceeded, "no native transfer pending")
	req := h.peer.proceeded[0]
	h.peer.proceeded = h.peer.proceeded[1:]

	old := h.peer.owner
	h.peer.owner = req.Heavyweight
	h.peer.window = h.tree.TopLevel(req.Heavyweight)
	if !old.IsNone() && old != req.Heavyweight {
		require.NoError(h.t, h.m.Dispatch(ctx, entity.NewFocusLost(old, req.Heavyweight, false, entity.CauseNativeSystem)))
	}
	require.NoError(h.t, h.m.Dispatch(ctx, entity.NewFocusGained(req.Heavyweight, old, false, entity.CauseNativeSystem)))
}

// focus moves focus to target through a full native round-trip.
func (h *harness) focus(ctx context.Context, target entity.ElementID) {
	h.t.Helper()
	ok, err := h.m.RequestFocus(ctx, target, RequestOptions{WindowChangeAllowed: true})
	require.NoError(h.t, err)
	require.True(h.t, ok)
	for len(h.peer.proceeded) > 0 {
		h.confirmNative(ctx)
	}
	h.flush(ctx)
	require.Equal(h.t, target, h.m.FocusOwner())
}

// singleWindow builds W1 holding lightweights A, B, C.
func singleWindow() *fakeTree {
	return newFakeTree().
		window("W1").
		light("A", "W1").
		light("B", "W1").
		light("C", "W1")
}

// heavyPanels builds W1 holding native panels H1, H2, H3 and W2 holding
// native panel H4 with lightweight D.
func heavyPanels() *fakeTree {
	return newFakeTree().
		window("W1").
		heavy("H1", "W1").
		heavy("H2", "W1").
		heavy("H3", "W1").
		window("W2").
		heavy("H4", "W2").
		light("D", "H4")
}
