package focus

import (
	"context"
	"sync"

	"github.com/bnema/focuscore/internal/logging"
)

// Property names a tracked focus-state field.
type Property string

const (
	PropFocusOwner            Property = "focusOwner"
	PropPermanentFocusOwner   Property = "permanentFocusOwner"
	PropFocusedWindow         Property = "focusedWindow"
	PropActiveWindow          Property = "activeWindow"
	PropCurrentFocusCycleRoot Property = "currentFocusCycleRoot"
	PropManagingFocus         Property = "managingFocus"
)

// PropertyChange describes a change of a tracked property. Old and New hold
// entity.ElementID values, except for PropManagingFocus which carries bools.
type PropertyChange struct {
	Property Property
	Old      any
	New      any
}

// VetoableChangeFunc is consulted before a property changes. Returning a
// non-nil error vetoes the change.
type VetoableChangeFunc func(ctx context.Context, change PropertyChange) error

// ChangeFunc is notified after a property changed.
type ChangeFunc func(ctx context.Context, change PropertyChange)

type vetoableEntry struct {
	id uint64
	fn VetoableChangeFunc
}

type boundEntry struct {
	id uint64
	fn ChangeFunc
}

// changeSupport keeps the vetoable and bound listener lists. Its lock is only
// held to copy the lists; listeners always run without it.
type changeSupport struct {
	mu       sync.Mutex
	nextID   uint64
	vetoable map[Property][]vetoableEntry
	bound    map[Property][]boundEntry
	onVeto   func(Property)
}

func newChangeSupport() *changeSupport {
	return &changeSupport{
		vetoable: make(map[Property][]vetoableEntry),
		bound:    make(map[Property][]boundEntry),
	}
}

// addVetoable registers fn for prop, or for every property when prop is empty.
// The returned function removes the registration.
func (s *changeSupport) addVetoable(prop Property, fn VetoableChangeFunc) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.vetoable[prop] = append(s.vetoable[prop], vetoableEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.vetoable[prop]
		for i, e := range list {
			if e.id == id {
				s.vetoable[prop] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// addBound registers fn for prop, or for every property when prop is empty.
func (s *changeSupport) addBound(prop Property, fn ChangeFunc) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.bound[prop] = append(s.bound[prop], boundEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.bound[prop]
		for i, e := range list {
			if e.id == id {
				s.bound[prop] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s *changeSupport) vetoableFor(prop Property) []vetoableEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vetoableEntry, 0, len(s.vetoable[""])+len(s.vetoable[prop]))
	out = append(out, s.vetoable[""]...)
	return append(out, s.vetoable[prop]...)
}

func (s *changeSupport) boundFor(prop Property) []boundEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]boundEntry, 0, len(s.bound[""])+len(s.bound[prop]))
	out = append(out, s.bound[""]...)
	return append(out, s.bound[prop]...)
}

// fireVetoable consults every vetoable listener in registration order. On the
// first veto the listeners already consulted are told the change is reverted
// (old and new swapped, their answers ignored) and a *VetoError is returned.
// Nothing fires when old equals new.
func (s *changeSupport) fireVetoable(ctx context.Context, change PropertyChange) error {
	if change.Old == change.New {
		return nil
	}
	listeners := s.vetoableFor(change.Property)
	for i, l := range listeners {
		err := l.fn(ctx, change)
		if err == nil {
			continue
		}

		revert := PropertyChange{Property: change.Property, Old: change.New, New: change.Old}
		for _, consulted := range listeners[:i] {
			_ = consulted.fn(ctx, revert)
		}

		logging.FromContext(ctx).Debug().
			Str("property", string(change.Property)).
			Interface("old", change.Old).
			Interface("new", change.New).
			Err(err).
			Msg("property change vetoed")
		if s.onVeto != nil {
			s.onVeto(change.Property)
		}
		return &VetoError{Property: change.Property, Old: change.Old, New: change.New, Err: err}
	}
	return nil
}

// fireBound notifies bound listeners. Nothing fires when old equals new.
func (s *changeSupport) fireBound(ctx context.Context, change PropertyChange) {
	if change.Old == change.New {
		return
	}
	for _, l := range s.boundFor(change.Property) {
		l.fn(ctx, change)
	}
}
