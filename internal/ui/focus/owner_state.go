package focus

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// OwnerState is the focus record of one isolation context.
//
// Every setter validates the proposed value, consults vetoable listeners
// without holding the state lock, mutates under the lock and finally notifies
// bound listeners, again without the lock.
type OwnerState struct {
	mu   sync.RWMutex
	tree port.ComponentTree

	focusOwner          entity.ElementID
	permanentFocusOwner entity.ElementID
	focusedWindow       entity.ElementID
	activeWindow        entity.ElementID
	cycleRoot           entity.ElementID

	recent  *RecentOwners
	changes *changeSupport
}

// Snapshot is a consistent copy of an OwnerState.
type Snapshot struct {
	FocusOwner            entity.ElementID
	PermanentFocusOwner   entity.ElementID
	FocusedWindow         entity.ElementID
	ActiveWindow          entity.ElementID
	CurrentFocusCycleRoot entity.ElementID
}

// NewOwnerState creates an empty state. recent may be nil.
func NewOwnerState(tree port.ComponentTree, recent *RecentOwners, metrics port.FocusMetrics) *OwnerState {
	if recent == nil {
		recent = NewRecentOwners()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &OwnerState{
		tree:    tree,
		recent:  recent,
		changes: newChangeSupport(),
	}
	s.changes.onVeto = func(p Property) { metrics.IncVeto(string(p)) }
	return s
}

func (s *OwnerState) FocusOwner() entity.ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focusOwner
}

func (s *OwnerState) PermanentFocusOwner() entity.ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permanentFocusOwner
}

func (s *OwnerState) FocusedWindow() entity.ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focusedWindow
}

func (s *OwnerState) ActiveWindow() entity.ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeWindow
}

func (s *OwnerState) CurrentFocusCycleRoot() entity.ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycleRoot
}

// Snapshot returns all fields read under one lock.
func (s *OwnerState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		FocusOwner:            s.focusOwner,
		PermanentFocusOwner:   s.permanentFocusOwner,
		FocusedWindow:         s.focusedWindow,
		ActiveWindow:          s.activeWindow,
		CurrentFocusCycleRoot: s.cycleRoot,
	}
}

// Recent returns the most-recent-owner table fed by SetPermanentFocusOwner.
func (s *OwnerState) Recent() *RecentOwners {
	return s.recent
}

// SetFocusOwner changes the focus owner. When the new owner is outside the
// current focus cycle, the cycle root moves to the owner's root.
func (s *OwnerState) SetFocusOwner(ctx context.Context, id entity.ElementID) error {
	if !id.IsNone() && !s.tree.IsFocusable(id) {
		return fmt.Errorf("set focus owner %s: %w", id, ErrNotFocusable)
	}

	old := s.FocusOwner()
	if err := s.changes.fireVetoable(ctx, PropertyChange{Property: PropFocusOwner, Old: old, New: id}); err != nil {
		return err
	}

	s.mu.Lock()
	old = s.focusOwner
	s.focusOwner = id
	oldRoot := s.cycleRoot
	if !id.IsNone() && !s.inCycleLocked(id) {
		root := s.tree.FocusCycleRootAncestor(id)
		if root.IsNone() && s.tree.IsWindow(id) {
			root = id
		}
		if !root.IsNone() {
			s.cycleRoot = root
		}
	}
	newRoot := s.cycleRoot
	s.mu.Unlock()

	logging.FromContext(ctx).Trace().
		Str("old", old.String()).
		Str("new", id.String()).
		Msg("focus owner changed")

	s.changes.fireBound(ctx, PropertyChange{Property: PropCurrentFocusCycleRoot, Old: oldRoot, New: newRoot})
	s.changes.fireBound(ctx, PropertyChange{Property: PropFocusOwner, Old: old, New: id})
	return nil
}

func (s *OwnerState) inCycleLocked(id entity.ElementID) bool {
	if s.cycleRoot.IsNone() {
		return false
	}
	if id == s.cycleRoot && s.tree.IsFocusCycleRoot(id) {
		return true
	}
	return s.tree.FocusCycleRootAncestor(id) == s.cycleRoot
}

// SetPermanentFocusOwner changes the permanent focus owner and records it as
// the most recent owner of its top-level.
func (s *OwnerState) SetPermanentFocusOwner(ctx context.Context, id entity.ElementID) error {
	if !id.IsNone() && !s.tree.IsFocusable(id) {
		return fmt.Errorf("set permanent focus owner %s: %w", id, ErrNotFocusable)
	}

	old := s.PermanentFocusOwner()
	if err := s.changes.fireVetoable(ctx, PropertyChange{Property: PropPermanentFocusOwner, Old: old, New: id}); err != nil {
		return err
	}

	s.mu.Lock()
	old = s.permanentFocusOwner
	s.permanentFocusOwner = id
	s.mu.Unlock()

	if !id.IsNone() {
		s.recent.Set(s.tree.TopLevel(id), id)
	}

	s.changes.fireBound(ctx, PropertyChange{Property: PropPermanentFocusOwner, Old: old, New: id})
	return nil
}

// SetFocusedWindow changes the focused window.
func (s *OwnerState) SetFocusedWindow(ctx context.Context, id entity.ElementID) error {
	if !id.IsNone() && !s.tree.IsFocusableWindow(id) {
		return fmt.Errorf("set focused window %s: %w", id, ErrNotWindow)
	}

	old := s.FocusedWindow()
	if err := s.changes.fireVetoable(ctx, PropertyChange{Property: PropFocusedWindow, Old: old, New: id}); err != nil {
		return err
	}

	s.mu.Lock()
	old = s.focusedWindow
	s.focusedWindow = id
	s.mu.Unlock()

	s.changes.fireBound(ctx, PropertyChange{Property: PropFocusedWindow, Old: old, New: id})
	return nil
}

// SetActiveWindow changes the active window, which must be a frame or dialog.
func (s *OwnerState) SetActiveWindow(ctx context.Context, id entity.ElementID) error {
	if !id.IsNone() && (!s.tree.IsWindow(id) || s.tree.ActivatableWindow(id) != id) {
		return fmt.Errorf("set active window %s: %w", id, ErrNotWindow)
	}

	old := s.ActiveWindow()
	if err := s.changes.fireVetoable(ctx, PropertyChange{Property: PropActiveWindow, Old: old, New: id}); err != nil {
		return err
	}

	s.mu.Lock()
	old = s.activeWindow
	s.activeWindow = id
	s.mu.Unlock()

	s.changes.fireBound(ctx, PropertyChange{Property: PropActiveWindow, Old: old, New: id})
	return nil
}

// SetCurrentFocusCycleRoot changes the current focus cycle root. It is not vetoable.
func (s *OwnerState) SetCurrentFocusCycleRoot(ctx context.Context, id entity.ElementID) error {
	if !id.IsNone() && !s.tree.IsFocusCycleRoot(id) {
		return fmt.Errorf("set focus cycle root %s: %w", id, ErrNotCycleRoot)
	}

	s.mu.Lock()
	old := s.cycleRoot
	s.cycleRoot = id
	s.mu.Unlock()

	s.changes.fireBound(ctx, PropertyChange{Property: PropCurrentFocusCycleRoot, Old: old, New: id})
	return nil
}

// SetManagingFocus announces whether the owning manager is the one installed
// for its context.
func (s *OwnerState) SetManagingFocus(ctx context.Context, managing bool) {
	s.changes.fireBound(ctx, PropertyChange{Property: PropManagingFocus, Old: !managing, New: managing})
}

// OnChange registers a bound listener for prop, or for every property when
// prop is empty. The returned function unregisters it.
func (s *OwnerState) OnChange(prop Property, fn ChangeFunc) func() {
	return s.changes.addBound(prop, fn)
}

// OnVetoableChange registers a vetoable listener for prop, or for every
// property when prop is empty. The returned function unregisters it.
func (s *OwnerState) OnVetoableChange(prop Property, fn VetoableChangeFunc) func() {
	return s.changes.addVetoable(prop, fn)
}
