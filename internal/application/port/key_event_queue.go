package port

import (
	"time"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// KeyEventQueue holds key events typed while a focus transfer is in flight so
// they reach the element that eventually gains focus (type-ahead).
//
// Every method is non-blocking; the focus request queue calls them while
// holding its own lock.
type KeyEventQueue interface {
	// HoldEventsUntil places a marker: key events newer than when are held
	// until target gains focus.
	HoldEventsUntil(when time.Time, target entity.ElementID)
	// ReleaseHeldEvents removes the marker placed for target at when. A zero
	// time removes the oldest marker for target.
	ReleaseHeldEvents(when time.Time, target entity.ElementID)
	// DiscardHeldEvents removes every marker for target and drops the key
	// events those markers were holding.
	DiscardHeldEvents(target entity.ElementID)
	// ClearMarkers drops all markers; held key events become deliverable.
	ClearMarkers()

	// Offer holds ev when a pending marker precedes it and reports whether it did.
	Offer(ev entity.KeyEvent) bool
	// FocusGained removes the markers satisfied by target gaining focus.
	FocusGained(target entity.ElementID)
	// Approved removes and returns the held key events no longer covered by a marker.
	Approved() []entity.KeyEvent
}
