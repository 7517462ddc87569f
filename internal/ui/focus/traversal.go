package focus

import (
	"context"
	"fmt"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// FocusNextComponent moves focus to the element after from in its focus
// cycle, wrapping to the cycle's default element. An empty from means the
// current focus owner.
func (m *Manager) FocusNextComponent(ctx context.Context, from entity.ElementID) (bool, error) {
	return m.traverse(ctx, from, entity.CauseTraversalForward)
}

// FocusPreviousComponent moves focus to the element before from in its focus cycle.
func (m *Manager) FocusPreviousComponent(ctx context.Context, from entity.ElementID) (bool, error) {
	return m.traverse(ctx, from, entity.CauseTraversalBackward)
}

func (m *Manager) traverse(ctx context.Context, from entity.ElementID, cause entity.Cause) (bool, error) {
	ctx = m.logCtx(ctx)
	if from.IsNone() {
		from = m.state.FocusOwner()
	}
	if from.IsNone() {
		return false, nil
	}

	root := m.traversalRoot(from)
	if root.IsNone() {
		return false, nil
	}

	var next entity.ElementID
	if cause == entity.CauseTraversalBackward {
		next = m.tree.ComponentBefore(root, from)
	} else {
		next = m.tree.ComponentAfter(root, from)
	}
	if next.IsNone() {
		next = m.tree.DefaultComponent(root)
	}
	if next.IsNone() {
		return false, nil
	}

	logging.FromContext(ctx).Debug().
		Str("from", from.String()).
		Str("to", next.String()).
		Str("root", root.String()).
		Str("cause", cause.String()).
		Msg("focus traversal")
	return m.RequestFocus(ctx, next, RequestOptions{Cause: cause})
}

// traversalRoot is the nearest focusable cycle root above from, or from's window.
func (m *Manager) traversalRoot(from entity.ElementID) entity.ElementID {
	root := m.tree.FocusCycleRootAncestor(from)
	for !root.IsNone() && !m.tree.IsFocusable(root) && !m.tree.IsWindow(root) {
		root = m.tree.FocusCycleRootAncestor(root)
	}
	if root.IsNone() {
		root = m.tree.TopLevel(from)
	}
	return root
}

// UpFocusCycle moves focus to the cycle root of from and makes the enclosing
// cycle current. At the top, focus goes to the window's default element.
func (m *Manager) UpFocusCycle(ctx context.Context, from entity.ElementID) (bool, error) {
	ctx = m.logCtx(ctx)
	if from.IsNone() {
		from = m.state.FocusOwner()
	}
	if from.IsNone() {
		return false, nil
	}

	root := m.tree.FocusCycleRootAncestor(from)
	for !root.IsNone() && !m.tree.IsFocusable(root) {
		root = m.tree.FocusCycleRootAncestor(root)
	}

	if !root.IsNone() {
		cycle := m.tree.FocusCycleRootAncestor(root)
		if cycle.IsNone() {
			cycle = root
		}
		if err := m.SetCurrentFocusCycleRoot(ctx, cycle); err != nil {
			return false, fmt.Errorf("up focus cycle from %s: %w", from, err)
		}
		return m.RequestFocus(ctx, root, RequestOptions{WindowChangeAllowed: true, Cause: entity.CauseTraversalUp})
	}

	window := m.tree.TopLevel(from)
	if window.IsNone() {
		return false, nil
	}
	toFocus := m.tree.DefaultComponent(window)
	if toFocus.IsNone() {
		return false, nil
	}
	if err := m.SetCurrentFocusCycleRoot(ctx, window); err != nil {
		return false, fmt.Errorf("up focus cycle from %s: %w", from, err)
	}
	return m.RequestFocus(ctx, toFocus, RequestOptions{WindowChangeAllowed: true, Cause: entity.CauseTraversalUp})
}

// DownFocusCycle enters the focus cycle anchored at container and focuses its
// default element.
func (m *Manager) DownFocusCycle(ctx context.Context, container entity.ElementID) (bool, error) {
	ctx = m.logCtx(ctx)
	if !m.tree.IsFocusCycleRoot(container) {
		return false, fmt.Errorf("down focus cycle into %s: %w", container, ErrNotCycleRoot)
	}
	if err := m.SetCurrentFocusCycleRoot(ctx, container); err != nil {
		return false, fmt.Errorf("down focus cycle into %s: %w", container, err)
	}
	toFocus := m.tree.DefaultComponent(container)
	if toFocus.IsNone() {
		return false, nil
	}
	return m.RequestFocus(ctx, toFocus, RequestOptions{WindowChangeAllowed: true, Cause: entity.CauseTraversalDown})
}
