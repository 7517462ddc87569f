package focus

import (
	"sync"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// RecentOwners remembers, per top-level window, the element that most recently
// held permanent focus and the element that lost focus temporarily. Entries do
// not keep anything alive: callers expire them with Forget when an element is
// destroyed and ForgetWindow when a window goes away.
type RecentOwners struct {
	mu            sync.Mutex
	recent        map[entity.ElementID]entity.ElementID
	temporaryLost map[entity.ElementID]entity.ElementID
}

// NewRecentOwners creates an empty table.
func NewRecentOwners() *RecentOwners {
	return &RecentOwners{
		recent:        make(map[entity.ElementID]entity.ElementID),
		temporaryLost: make(map[entity.ElementID]entity.ElementID),
	}
}

// Set records element as the most recent owner inside window. An empty
// element removes the entry.
func (r *RecentOwners) Set(window, element entity.ElementID) {
	if window.IsNone() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if element.IsNone() {
		delete(r.recent, window)
		return
	}
	r.recent[window] = element
}

// Get returns the most recent owner recorded for window.
func (r *RecentOwners) Get(window entity.ElementID) entity.ElementID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent[window]
}

// SetTemporaryLost records the element of window that lost focus temporarily.
func (r *RecentOwners) SetTemporaryLost(window, element entity.ElementID) {
	if window.IsNone() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if element.IsNone() {
		delete(r.temporaryLost, window)
		return
	}
	r.temporaryLost[window] = element
}

// TemporaryLost returns the element of window that lost focus temporarily.
func (r *RecentOwners) TemporaryLost(window entity.ElementID) entity.ElementID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.temporaryLost[window]
}

// Forget drops every entry that refers to element.
func (r *RecentOwners) Forget(element entity.ElementID) {
	if element.IsNone() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for w, e := range r.recent {
		if e == element {
			delete(r.recent, w)
		}
	}
	for w, e := range r.temporaryLost {
		if e == element {
			delete(r.temporaryLost, w)
		}
	}
}

// ForgetWindow drops the entries of window.
func (r *RecentOwners) ForgetWindow(window entity.ElementID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recent, window)
	delete(r.temporaryLost, window)
}

// Len returns the number of windows with a recorded recent owner.
func (r *RecentOwners) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recent)
}
