package focus

import (
	"sync"
	"time"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
)

// LightweightRequest is a single logical focus target nested under a
// heavyweight request.
type LightweightRequest struct {
	Target    entity.ElementID
	Temporary bool
	Cause     entity.Cause
}

// HeavyweightRequest is one pending transfer of native focus. Its lightweight
// queue lists, in order, the logical targets requested inside that native
// element before the native layer confirmed the transfer.
type HeavyweightRequest struct {
	Target      entity.ElementID
	Lightweight []LightweightRequest

	clear bool
}

// IsClearSentinel reports whether r is the explicit "no focus owner" request.
func (r *HeavyweightRequest) IsClearSentinel() bool {
	return r != nil && r.clear
}

// First returns the oldest lightweight request.
func (r *HeavyweightRequest) First() (LightweightRequest, bool) {
	if r == nil || len(r.Lightweight) == 0 {
		return LightweightRequest{}, false
	}
	return r.Lightweight[0], true
}

// addLightweight nests target unless it repeats the current tail.
func (r *HeavyweightRequest) addLightweight(target entity.ElementID, temporary bool, cause entity.Cause) bool {
	if n := len(r.Lightweight); n > 0 && r.Lightweight[n-1].Target == target {
		return false
	}
	r.Lightweight = append(r.Lightweight, LightweightRequest{Target: target, Temporary: temporary, Cause: cause})
	return true
}

func (r *HeavyweightRequest) clone() *HeavyweightRequest {
	if r == nil {
		return nil
	}
	c := &HeavyweightRequest{Target: r.Target, clear: r.clear}
	if len(r.Lightweight) > 0 {
		c.Lightweight = append([]LightweightRequest(nil), r.Lightweight...)
	}
	return c
}

// RequestQueue is the FIFO of approved heavyweight focus requests.
//
// One mutex guards the queue together with the bookkeeping the gate and the
// retargeter share with it. The mutex is never held across a native call or a
// listener callback; the key-event queue calls made under it are non-blocking.
type RequestQueue struct {
	mu       sync.Mutex
	ctxID    entity.ContextID
	requests []*HeavyweightRequest
	keys     port.KeyEventQueue
	metrics  port.FocusMetrics

	// newFocusOwner is the single pending-new-owner slot used to recognise the
	// compensating FOCUS_LOST generated for a confirmed FOCUS_GAINED.
	newFocusOwner entity.ElementID
	// pendingReplay holds the lightweight requests left over from the last
	// confirmed heavyweight request, waiting to be replayed on the main loop.
	pendingReplay []LightweightRequest
	// repairFailures counts consecutive unexpected events.
	repairFailures int
	// syncBlocked is set while a multi-entry replay runs; synchronous
	// lightweight transfers are refused meanwhile.
	syncBlocked bool
}

// NewRequestQueue creates an empty queue for the given context.
func NewRequestQueue(ctxID entity.ContextID, keys port.KeyEventQueue, metrics port.FocusMetrics) *RequestQueue {
	if keys == nil {
		keys = noopKeyQueue{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RequestQueue{
		ctxID:   ctxID,
		keys:    keys,
		metrics: metrics,
	}
}

// Append records an approved request. When the tail already targets heavy (and
// is not the clear sentinel) light is nested into it, otherwise a new request
// is appended. It returns a copy of the affected request and whether a
// lightweight entry was added. Key events are held for a newly added target.
func (q *RequestQueue) Append(
	heavy, light entity.ElementID, temporary bool, cause entity.Cause, when time.Time,
) (*HeavyweightRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	req, added := q.appendLocked(heavy, light, temporary, cause, when)
	return req.clone(), added
}

func (q *RequestQueue) appendLocked(
	heavy, light entity.ElementID, temporary bool, cause entity.Cause, when time.Time,
) (*HeavyweightRequest, bool) {
	if light.IsNone() {
		light = heavy
	}

	if tail := q.tailLocked(); tail != nil && !tail.clear && tail.Target == heavy {
		added := tail.addLightweight(light, temporary, cause)
		if added {
			q.keys.HoldEventsUntil(when, light)
		}
		return tail, added
	}

	req := &HeavyweightRequest{Target: heavy}
	req.addLightweight(light, temporary, cause)
	q.requests = append(q.requests, req)
	q.keys.HoldEventsUntil(when, light)
	q.reportDepthLocked()
	return req, true
}

// AppendClearSentinel queues an explicit "no focus owner" request. It returns
// the previous tail and false when the tail already is a clear request.
func (q *RequestQueue) AppendClearSentinel() (*HeavyweightRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	prev, ok := q.appendClearLocked()
	return prev.clone(), ok
}

func (q *RequestQueue) appendClearLocked() (*HeavyweightRequest, bool) {
	prev := q.tailLocked()
	if prev.IsClearSentinel() {
		return prev, false
	}
	q.requests = append(q.requests, &HeavyweightRequest{clear: true})
	q.reportDepthLocked()
	return prev, true
}

// RemoveHead pops the oldest request and releases the key events held for
// each of its lightweight targets. It returns nil when the queue is empty.
func (q *RequestQueue) RemoveHead() *HeavyweightRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeHeadLocked(true)
}

func (q *RequestQueue) removeHeadLocked(release bool) *HeavyweightRequest {
	if len(q.requests) == 0 {
		return nil
	}
	head := q.requests[0]
	q.requests[0] = nil
	q.requests = q.requests[1:]
	if release {
		for _, lw := range head.Lightweight {
			q.keys.ReleaseHeldEvents(time.Time{}, lw.Target)
		}
	}
	q.reportDepthLocked()
	return head
}

// RemoveTailIfMatches retracts the last request when it still targets target.
// Key events held for its lightweight targets are discarded. Once a later
// request was appended, or the request was confirmed, it cannot be retracted.
func (q *RequestQueue) RemoveTailIfMatches(target entity.ElementID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	tail := q.tailLocked()
	if tail == nil || tail.clear || tail.Target != target {
		return false
	}
	q.requests[len(q.requests)-1] = nil
	q.requests = q.requests[:len(q.requests)-1]
	for _, lw := range tail.Lightweight {
		q.keys.DiscardHeldEvents(lw.Target)
	}
	if len(q.requests) == 0 {
		q.keys.ClearMarkers()
	}
	q.reportDepthLocked()
	return true
}

// PeekHead returns a copy of the oldest request, or nil.
func (q *RequestQueue) PeekHead() *HeavyweightRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.headLocked().clone()
}

// PeekTail returns a copy of the newest request, or nil.
func (q *RequestQueue) PeekTail() *HeavyweightRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tailLocked().clone()
}

// Len returns the number of pending heavyweight requests.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Snapshot returns copies of all pending requests, head first.
func (q *RequestQueue) Snapshot() []*HeavyweightRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*HeavyweightRequest, 0, len(q.requests))
	for _, r := range q.requests {
		out = append(out, r.clone())
	}
	return out
}

// PendingReplay returns the number of lightweight requests waiting to be replayed.
func (q *RequestQueue) PendingReplay() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pendingReplay)
}

// takeReplay hands the pending replay to the caller. Synchronous transfers
// stay refused until finishReplay when more than one entry is handed out.
func (q *RequestQueue) takeReplay() []LightweightRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	replay := q.pendingReplay
	q.pendingReplay = nil
	if len(replay) > 1 {
		q.syncBlocked = true
	}
	return replay
}

func (q *RequestQueue) finishReplay() {
	q.mu.Lock()
	q.syncBlocked = false
	q.mu.Unlock()
}

// PendingNewOwner returns the element whose compensating focus lost is
// awaited, if any.
func (q *RequestQueue) PendingNewOwner() entity.ElementID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.newFocusOwner
}

func (q *RequestQueue) headLocked() *HeavyweightRequest {
	if len(q.requests) == 0 {
		return nil
	}
	return q.requests[0]
}

func (q *RequestQueue) tailLocked() *HeavyweightRequest {
	if len(q.requests) == 0 {
		return nil
	}
	return q.requests[len(q.requests)-1]
}

// beforeTailLocked returns the second to last request, or nil.
func (q *RequestQueue) beforeTailLocked() *HeavyweightRequest {
	if len(q.requests) < 2 {
		return nil
	}
	return q.requests[len(q.requests)-2]
}

func (q *RequestQueue) reportDepthLocked() {
	q.metrics.SetQueueDepth(q.ctxID, len(q.requests))
}

type noopKeyQueue struct{}

func (noopKeyQueue) HoldEventsUntil(time.Time, entity.ElementID) {}
func (noopKeyQueue) ReleaseHeldEvents(time.Time, entity.ElementID) {}
func (noopKeyQueue) DiscardHeldEvents(entity.ElementID) {}
func (noopKeyQueue) ClearMarkers() {}
func (noopKeyQueue) Offer(entity.KeyEvent) bool { return false }
func (noopKeyQueue) FocusGained(entity.ElementID) {}
func (noopKeyQueue) Approved() []entity.KeyEvent { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveGate(entity.GateResult) {}
func (noopMetrics) ObserveRetarget(entity.FocusKind, entity.Classification) {}
func (noopMetrics) SetQueueDepth(entity.ContextID, int) {}
func (noopMetrics) IncVeto(string) {}
func (noopMetrics) IncListenerFailure() {}
