// Package headless provides an in-memory toolkit for the focus core: an
// element tree, a native peer with its own native focus lock, an event sink
// and an event pump. It drives the core without any display server.
package headless

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
)

var (
	ErrDuplicateElement = errors.New("element already exists")
	ErrUnknownElement   = errors.New("unknown element")
	ErrInvalidParent    = errors.New("invalid parent")
)

// Kind is the role an element plays in the hierarchy.
type Kind int

const (
	KindLightweight Kind = iota // Drawn by its native container
	KindHeavyweight             // Owns a native peer
	KindFrame                   // Top-level, activatable
	KindDialog                  // Top-level, activatable, owned by a frame
	KindPopup                   // Top-level owned window, activates its owner
)

// String returns the kind as written in scenario files.
func (k Kind) String() string {
	switch k {
	case KindLightweight:
		return "lightweight"
	case KindHeavyweight:
		return "heavyweight"
	case KindFrame:
		return "frame"
	case KindDialog:
		return "dialog"
	case KindPopup:
		return "popup"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	for k := KindLightweight; k <= KindPopup; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", s)
}

// IsWindow reports whether the kind is a top-level window.
func (k Kind) IsWindow() bool {
	return k == KindFrame || k == KindDialog || k == KindPopup
}

// Spec describes an element to add to the tree.
type Spec struct {
	ID     entity.ElementID
	Parent entity.ElementID // Empty for windows
	Owner  entity.ElementID // Owning window for dialogs and popups
	Kind   Kind

	// Unfocusable elements are skipped by traversal and refused by requests.
	Unfocusable bool
	Hidden      bool
	Disabled    bool
	// CycleRoot makes a container anchor its own traversal cycle. Windows
	// always are cycle roots.
	CycleRoot bool
}

// Node is an element of the headless hierarchy.
type Node struct {
	Spec
	parent   *Node
	Children []*Node
}

// Walk traverses the subtree calling fn for each node. Returns early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func (n *Node) focusable() bool {
	return !n.Unfocusable && !n.Hidden && !n.Disabled
}

func (n *Node) cycleRoot() bool {
	return n.CycleRoot || n.Kind.IsWindow()
}

// Tree is a mutable element hierarchy implementing port.ComponentTree.
// Traversal is pre-order in insertion order; a nested cycle root takes part in
// its parent's cycle but its contents do not.
type Tree struct {
	mu      sync.RWMutex
	nodes   map[entity.ElementID]*Node
	windows []*Node
}

var _ port.ComponentTree = (*Tree)(nil)

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[entity.ElementID]*Node)}
}

// Add inserts an element. Windows are roots; every other element needs an
// existing parent.
func (t *Tree) Add(spec Spec) error {
	if spec.ID.IsNone() {
		return fmt.Errorf("add element: %w", ErrUnknownElement)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[spec.ID]; ok {
		return fmt.Errorf("add %s: %w", spec.ID, ErrDuplicateElement)
	}
	n := &Node{Spec: spec}
	if spec.Kind.IsWindow() {
		if !spec.Parent.IsNone() {
			return fmt.Errorf("add window %s under %s: %w", spec.ID, spec.Parent, ErrInvalidParent)
		}
		if !spec.Owner.IsNone() {
			owner, ok := t.nodes[spec.Owner]
			if !ok || !owner.Kind.IsWindow() {
				return fmt.Errorf("add window %s owned by %s: %w", spec.ID, spec.Owner, ErrInvalidParent)
			}
		}
		t.windows = append(t.windows, n)
		t.nodes[spec.ID] = n
		return nil
	}

	parent, ok := t.nodes[spec.Parent]
	if !ok {
		return fmt.Errorf("add %s under %q: %w", spec.ID, spec.Parent, ErrInvalidParent)
	}
	n.parent = parent
	parent.Children = append(parent.Children, n)
	t.nodes[spec.ID] = n
	return nil
}

// Remove deletes id and its subtree and returns the removed ids, id first.
func (t *Tree) Remove(id entity.ElementID) ([]entity.ElementID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove %s: %w", id, ErrUnknownElement)
	}
	var removed []entity.ElementID
	n.Walk(func(c *Node) bool {
		removed = append(removed, c.ID)
		delete(t.nodes, c.ID)
		return true
	})
	if n.parent != nil {
		n.parent.Children = without(n.parent.Children, n)
	} else {
		t.windows = without(t.windows, n)
	}
	return removed, nil
}

func without(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Update applies fn to id's spec. Identity and placement fields are restored
// after fn returns.
func (t *Tree) Update(id entity.ElementID, fn func(*Spec)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrUnknownElement)
	}
	spec := n.Spec
	fn(&spec)
	spec.ID, spec.Parent, spec.Owner, spec.Kind = n.ID, n.Parent, n.Owner, n.Kind
	n.Spec = spec
	return nil
}

// Lookup returns a copy of id's spec.
func (t *Tree) Lookup(id entity.ElementID) (Spec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return Spec{}, false
	}
	return n.Spec, true
}

// Windows returns the top-level windows in insertion order.
func (t *Tree) Windows() []entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]entity.ElementID, 0, len(t.windows))
	for _, w := range t.windows {
		out = append(out, w.ID)
	}
	return out
}

// Len returns the number of elements.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

func (t *Tree) NativeContainer(id entity.ElementID) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for n := t.nodes[id]; n != nil; n = n.parent {
		if n.Hidden {
			return entity.None
		}
		if n.Kind != KindLightweight {
			return n.ID
		}
	}
	return entity.None
}

func (t *Tree) IsHeavyweight(id entity.ElementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return ok && n.Kind != KindLightweight
}

func (t *Tree) TopLevel(id entity.ElementID) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for n := t.nodes[id]; n != nil; n = n.parent {
		if n.Kind.IsWindow() {
			return n.ID
		}
	}
	return entity.None
}

func (t *Tree) IsWindow(id entity.ElementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return ok && n.Kind.IsWindow()
}

func (t *Tree) IsFocusableWindow(id entity.ElementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return ok && n.Kind.IsWindow() && n.focusable()
}

// ActivatableWindow returns the owner of a popup and the window itself otherwise.
func (t *Tree) ActivatableWindow(window entity.ElementID) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[window]
	if !ok {
		return entity.None
	}
	for n.Kind == KindPopup && !n.Owner.IsNone() {
		owner, ok := t.nodes[n.Owner]
		if !ok {
			break
		}
		n = owner
	}
	return n.ID
}

// IsFocusable reports whether id is focusable, enabled and showing.
func (t *Tree) IsFocusable(id entity.ElementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok || !n.focusable() {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.Hidden || p.Disabled {
			return false
		}
	}
	return true
}

func (t *Tree) IsFocusCycleRoot(id entity.ElementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return ok && n.cycleRoot()
}

func (t *Tree) FocusCycleRootAncestor(id entity.ElementID) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return entity.None
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.cycleRoot() {
			return p.ID
		}
	}
	return entity.None
}

// Must be called with t.mu held.
func (t *Tree) cycleLocked(root entity.ElementID) []entity.ElementID {
	n, ok := t.nodes[root]
	if !ok {
		return nil
	}
	var out []entity.ElementID
	var walk func(*Node)
	walk = func(parent *Node) {
		for _, c := range parent.Children {
			if c.Hidden || c.Disabled {
				continue
			}
			if !c.Unfocusable {
				out = append(out, c.ID)
			}
			if !c.cycleRoot() {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// Cycle returns root's traversal order.
func (t *Tree) Cycle(root entity.ElementID) []entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cycleLocked(root)
}

func (t *Tree) ComponentAfter(root, id entity.ElementID) entity.ElementID {
	return t.step(root, id, 1)
}

func (t *Tree) ComponentBefore(root, id entity.ElementID) entity.ElementID {
	return t.step(root, id, -1)
}

func (t *Tree) step(root, id entity.ElementID, dir int) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	order := t.cycleLocked(root)
	for i, c := range order {
		if c == id {
			return order[(i+dir+len(order))%len(order)]
		}
	}
	return entity.None
}

func (t *Tree) DefaultComponent(root entity.ElementID) entity.ElementID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if order := t.cycleLocked(root); len(order) > 0 {
		return order[0]
	}
	return entity.None
}
