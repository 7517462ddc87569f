package focus

import (
	"context"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
)

// Retargeter rewrites raw native focus events into the logical events the
// pending requests called for.
type Retargeter struct {
	queue   *RequestQueue
	tree    port.ComponentTree
	state   *OwnerState
	metrics port.FocusMetrics

	// sweepThreshold is the number of consecutive repairs after which all
	// type-ahead markers are dropped. Zero disables the sweep.
	sweepThreshold int
	// scheduleReplay is called, outside the queue lock, when a confirmation
	// left lightweight requests to replay.
	scheduleReplay func(ctx context.Context)
}

// NewRetargeter creates a retargeter over queue.
func NewRetargeter(
	queue *RequestQueue,
	tree port.ComponentTree,
	state *OwnerState,
	metrics port.FocusMetrics,
	sweepThreshold int,
	scheduleReplay func(ctx context.Context),
) *Retargeter {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if scheduleReplay == nil {
		scheduleReplay = func(context.Context) {}
	}
	return &Retargeter{
		queue:          queue,
		tree:           tree,
		state:          state,
		metrics:        metrics,
		sweepThreshold: sweepThreshold,
		scheduleReplay: scheduleReplay,
	}
}

// ConsumeSuppressed recognises the compensating FOCUS_LOST sent to the old
// owner after a confirmed FOCUS_GAINED. It matches at most once per
// confirmation and clears the pending-new-owner slot when it does.
func (r *Retargeter) ConsumeSuppressed(ctx context.Context, ev entity.FocusEvent) bool {
	if ev.Kind != entity.FocusLost {
		return false
	}
	current := r.state.FocusOwner()

	r.queue.mu.Lock()
	slot := r.queue.newFocusOwner
	matched := !slot.IsNone() && current == ev.Source && ev.Opposite == slot
	if matched {
		r.queue.newFocusOwner = entity.None
	}
	r.queue.mu.Unlock()

	if matched {
		r.metrics.ObserveRetarget(ev.Kind, entity.ClassSuppressed)
		logging.FromContext(ctx).Trace().
			Str("event", ev.String()).
			Msg("compensating focus lost passed through")
	}
	return matched
}

// Retarget classifies a raw focus event against the head of the queue and
// returns the event to deliver. Events dispatched by a lightweight replay are
// returned unchanged.
func (r *Retargeter) Retarget(ctx context.Context, ev entity.FocusEvent) (entity.FocusEvent, entity.Classification) {
	if inReplay(ctx) {
		return ev, entity.ClassPassThrough
	}

	current := r.state.FocusOwner()

	var (
		out      entity.FocusEvent
		class    entity.Classification
		replay   bool
		repaired *repairReport
	)
	switch ev.Kind {
	case entity.FocusGained:
		out, class, replay, repaired = r.retargetGained(ev, current)
	case entity.FocusLost:
		out, class, repaired = r.retargetLost(ev, current)
	default:
		return ev, entity.ClassPassThrough
	}

	log := logging.FromContext(ctx)
	if repaired != nil {
		log.Warn().
			Str("raw", ev.String()).
			Str("repaired", out.String()).
			Str("dropped", repaired.dropped.String()).
			Int("queue_len", repaired.remaining).
			Bool("markers_swept", repaired.swept).
			Msg("unexpected focus event repaired")
	} else {
		log.Debug().
			Str("raw", ev.String()).
			Str("retargeted", out.String()).
			Str("class", class.String()).
			Msg("focus event retargeted")
	}
	r.metrics.ObserveRetarget(ev.Kind, class)

	if replay {
		r.scheduleReplay(ctx)
	}
	return out, class
}

func (r *Retargeter) retargetGained(
	ev entity.FocusEvent, current entity.ElementID,
) (entity.FocusEvent, entity.Classification, bool, *repairReport) {
	q := r.queue
	q.mu.Lock()
	defer q.mu.Unlock()

	head := q.headLocked()
	if head.IsClearSentinel() {
		out, rep := r.repairLocked(ev, current)
		return out, entity.ClassRepaired, false, rep
	}

	if head != nil {
		source := ev.Source
		// A peer-less element handing focus back to its container stands
		// for the container itself.
		if first, ok := head.First(); ok && !r.tree.IsHeavyweight(source) && source == first.Target {
			source = head.Target
		}
		if source == head.Target {
			q.removeHeadLocked(false)
			lw := head.Lightweight[0]
			newSource := lw.Target
			if !current.IsNone() {
				q.newFocusOwner = newSource
			}

			replay := false
			if len(head.Lightweight) > 1 {
				q.pendingReplay = append(q.pendingReplay, head.Lightweight[1:]...)
				replay = true
			}

			temporary := lw.Temporary
			if ev.Opposite.IsNone() || isTemporary(r.tree, newSource, ev.Opposite) {
				temporary = false
			}
			q.repairFailures = 0

			return entity.FocusEvent{
				Kind:      entity.FocusGained,
				Source:    newSource,
				Opposite:  ev.Opposite,
				Temporary: temporary,
				Cause:     lw.Cause,
				When:      ev.When,
			}, entity.ClassConfirmed, replay, nil
		}
	}

	if !current.IsNone() && r.tree.TopLevel(current) == ev.Source && (head == nil || head.Target != ev.Source) {
		return entity.FocusEvent{
			Kind:   entity.FocusGained,
			Source: current,
			Cause:  entity.CauseActivation,
			When:   ev.When,
		}, entity.ClassActivationEcho, false, nil
	}

	out, rep := r.repairLocked(ev, current)
	return out, entity.ClassRepaired, false, rep
}

func (r *Retargeter) retargetLost(
	ev entity.FocusEvent, current entity.ElementID,
) (entity.FocusEvent, entity.Classification, *repairReport) {
	q := r.queue
	q.mu.Lock()
	defer q.mu.Unlock()

	head := q.headLocked()
	opposite := ev.Opposite

	switch {
	case head.IsClearSentinel():
		if current.IsNone() {
			break
		}
		q.removeHeadLocked(false)
		q.repairFailures = 0
		return entity.FocusEvent{
			Kind:   entity.FocusLost,
			Source: current,
			Cause:  entity.CauseClearGlobalFocusOwner,
			When:   ev.When,
		}, entity.ClassClearConfirmed, nil

	case opposite.IsNone():
		if current.IsNone() {
			return ev, entity.ClassLeftApplication, nil
		}
		return entity.FocusEvent{
			Kind:      entity.FocusLost,
			Source:    current,
			Temporary: true,
			Cause:     entity.CauseActivation,
			When:      ev.When,
		}, entity.ClassLeftApplication, nil

	case head != nil && r.matchesHead(head, opposite):
		if current.IsNone() {
			return ev, entity.ClassMatched, nil
		}
		lw := head.Lightweight[0]
		return entity.FocusEvent{
			Kind:      entity.FocusLost,
			Source:    current,
			Opposite:  lw.Target,
			Temporary: isTemporary(r.tree, opposite, current) || lw.Temporary,
			Cause:     lw.Cause,
			When:      ev.When,
		}, entity.ClassMatched, nil

	case focusedWindowChanged(r.tree, opposite, current):
		if !ev.Temporary && !current.IsNone() {
			return entity.FocusEvent{
				Kind:      entity.FocusLost,
				Source:    current,
				Opposite:  opposite,
				Temporary: true,
				Cause:     entity.CauseActivation,
				When:      ev.When,
			}, entity.ClassWindowChange, nil
		}
		return ev, entity.ClassWindowChange, nil
	}

	out, rep := r.repairLocked(ev, current)
	return out, entity.ClassRepaired, rep
}

// matchesHead reports whether id is the element head is transferring focus to.
func (r *Retargeter) matchesHead(head *HeavyweightRequest, id entity.ElementID) bool {
	if r.tree.IsHeavyweight(id) {
		return id == head.Target
	}
	first, ok := head.First()
	return ok && id == first.Target
}

type repairReport struct {
	dropped   entity.ElementID
	remaining int
	swept     bool
}

// repairLocked drops at most one head request and synthesizes a best-effort
// event tagged native-system, so the queue always makes progress.
func (r *Retargeter) repairLocked(ev entity.FocusEvent, current entity.ElementID) (entity.FocusEvent, *repairReport) {
	q := r.queue
	rep := &repairReport{}

	if head := q.removeHeadLocked(true); head != nil {
		rep.dropped = head.Target
	}
	q.repairFailures++
	if len(q.requests) == 0 || (r.sweepThreshold > 0 && q.repairFailures >= r.sweepThreshold) {
		q.keys.ClearMarkers()
		q.repairFailures = 0
		rep.swept = true
	}
	rep.remaining = len(q.requests)

	out := entity.FocusEvent{
		Kind:     ev.Kind,
		Source:   ev.Source,
		Opposite: ev.Opposite,
		Cause:    entity.CauseNativeSystem,
		When:     ev.When,
	}
	if ev.Kind == entity.FocusLost {
		if !current.IsNone() {
			out.Source = current
		}
		out.Temporary = ev.Opposite.IsNone() || isTemporary(r.tree, ev.Opposite, out.Source)
	}
	return out, rep
}

type replayKey struct{}

// withReplay marks ctx as belonging to a lightweight replay. restore reports
// whether a rejected gained may still restore focus.
func withReplay(ctx context.Context, restore bool) context.Context {
	return context.WithValue(ctx, replayKey{}, replayState{restore: restore})
}

type replayState struct {
	restore bool
}

func inReplay(ctx context.Context) bool {
	_, ok := ctx.Value(replayKey{}).(replayState)
	return ok
}

// restoreAllowed is false while a replay with further entries is running.
func restoreAllowed(ctx context.Context) bool {
	st, ok := ctx.Value(replayKey{}).(replayState)
	return !ok || st.restore
}
