package input

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// marker holds key events stamped after `after` until target gains focus.
type marker struct {
	after   time.Time
	target  entity.ElementID
	created time.Time
}

// TypeAhead queues key events typed while a focus transfer is pending and
// hands them back once the element they were meant for owns focus.
type TypeAhead struct {
	markers []marker
	held    []entity.KeyEvent

	// timeout expires markers older than this. Zero keeps them until released.
	timeout time.Duration
	clock   func() time.Time

	ctx context.Context
	mu  sync.Mutex
}

var _ port.KeyEventQueue = (*TypeAhead)(nil)

// TypeAheadOption configures a TypeAhead.
type TypeAheadOption func(*TypeAhead)

// WithTimeout expires markers that were not satisfied within d.
func WithTimeout(d time.Duration) TypeAheadOption {
	return func(q *TypeAhead) { q.timeout = d }
}

// WithClock overrides the clock used for marker expiry.
func WithClock(clock func() time.Time) TypeAheadOption {
	return func(q *TypeAhead) {
		if clock != nil {
			q.clock = clock
		}
	}
}

// NewTypeAhead creates an empty type-ahead queue.
func NewTypeAhead(ctx context.Context, opts ...TypeAheadOption) *TypeAhead {
	q := &TypeAhead{
		clock: time.Now,
		ctx:   logging.WithComponent(ctx, "typeahead"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// HoldEventsUntil places a marker for target. Markers stay ordered by their
// timestamp; equal timestamps keep insertion order.
func (q *TypeAhead) HoldEventsUntil(when time.Time, target entity.ElementID) {
	if target.IsNone() {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	i := sort.Search(len(q.markers), func(i int) bool {
		return q.markers[i].after.After(when)
	})
	q.markers = append(q.markers, marker{})
	copy(q.markers[i+1:], q.markers[i:])
	q.markers[i] = marker{after: when, target: target, created: q.clock()}

	logging.FromContext(q.ctx).Trace().
		Str("target", string(target)).
		Time("after", when).
		Int("markers", len(q.markers)).
		Msg("type-ahead marker placed")
}

// ReleaseHeldEvents removes one marker for target. A zero when removes the
// oldest marker for target; otherwise the newest marker stamped when.
func (q *TypeAhead) ReleaseHeldEvents(when time.Time, target entity.ElementID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if when.IsZero() {
		for i, mk := range q.markers {
			if mk.target == target {
				q.removeMarkerLocked(i)
				return
			}
		}
		return
	}
	for i := len(q.markers) - 1; i >= 0; i-- {
		mk := q.markers[i]
		if mk.target == target && mk.after.Equal(when) {
			q.removeMarkerLocked(i)
			return
		}
	}
}

// DiscardHeldEvents removes every marker for target and drops the key events
// each of them was holding: those stamped after the marker and up to the next
// marker (or all remaining ones for the last marker).
func (q *TypeAhead) DiscardHeldEvents(target entity.ElementID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var spans []span
	kept := q.markers[:0]
	for i, mk := range q.markers {
		if mk.target != target {
			kept = append(kept, mk)
			continue
		}
		s := span{from: mk.after}
		if i+1 < len(q.markers) {
			s.to = q.markers[i+1].after
		}
		spans = append(spans, s)
	}
	if len(spans) == 0 {
		return
	}
	q.markers = kept

	dropped := 0
	held := q.held[:0]
	for _, ev := range q.held {
		if coveredBy(ev.When, spans...) {
			dropped++
			continue
		}
		held = append(held, ev)
	}
	q.held = held

	logging.FromContext(q.ctx).Debug().
		Str("target", string(target)).
		Int("dropped", dropped).
		Msg("type-ahead discarded")
}

// span is the half-open range (from, to] of key timestamps held by a marker.
// A zero to extends to the end of the queue.
type span struct{ from, to time.Time }

func coveredBy(when time.Time, spans ...span) bool {
	for _, s := range spans {
		if when.After(s.from) && (s.to.IsZero() || !when.After(s.to)) {
			return true
		}
	}
	return false
}

// ClearMarkers drops every marker; held events become approved.
func (q *TypeAhead) ClearMarkers() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.markers) == 0 {
		return
	}
	logging.FromContext(q.ctx).Debug().Int("markers", len(q.markers)).Msg("type-ahead markers cleared")
	q.markers = nil
}

// Offer holds ev when it was typed after the oldest pending marker.
func (q *TypeAhead) Offer(ev entity.KeyEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.expireLocked()
	if len(q.markers) == 0 || !ev.When.After(q.markers[0].after) {
		return false
	}
	q.held = append(q.held, ev)
	return true
}

// FocusGained removes the markers satisfied by target owning focus: every
// marker up to and including the first run of target's markers.
func (q *TypeAhead) FocusGained(target entity.ElementID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	first := -1
	for i, mk := range q.markers {
		if mk.target == target {
			first = i
			break
		}
	}
	if first < 0 {
		return
	}
	end := first + 1
	for end < len(q.markers) && q.markers[end].target == target {
		end++
	}
	q.markers = append(q.markers[:0], q.markers[end:]...)
}

// Approved pops the held events no longer covered by a marker, oldest first.
func (q *TypeAhead) Approved() []entity.KeyEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.expireLocked()
	n := 0
	for n < len(q.held) {
		if len(q.markers) > 0 && q.held[n].When.After(q.markers[0].after) {
			break
		}
		n++
	}
	if n == 0 {
		return nil
	}
	out := make([]entity.KeyEvent, n)
	copy(out, q.held[:n])
	q.held = append(q.held[:0], q.held[n:]...)
	return out
}

// Markers returns the number of pending markers.
func (q *TypeAhead) Markers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.markers)
}

// Held returns the number of key events waiting for a marker.
func (q *TypeAhead) Held() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.held)
}

// Must be called with q.mu held.
func (q *TypeAhead) removeMarkerLocked(i int) {
	q.markers = append(q.markers[:i], q.markers[i+1:]...)
}

// Must be called with q.mu held.
func (q *TypeAhead) expireLocked() {
	if q.timeout <= 0 || len(q.markers) == 0 {
		return
	}
	now := q.clock()
	kept := q.markers[:0]
	for _, mk := range q.markers {
		if now.Sub(mk.created) >= q.timeout {
			logging.FromContext(q.ctx).Warn().
				Str("target", string(mk.target)).
				Dur("timeout", q.timeout).
				Msg("type-ahead marker expired")
			continue
		}
		kept = append(kept, mk)
	}
	q.markers = kept
}
