package port

import "github.com/bnema/focuscore/internal/domain/entity"

// FocusMetrics receives counters from the focus core. Implementations must be
// safe for concurrent use and must not block.
type FocusMetrics interface {
	ObserveGate(result entity.GateResult)
	ObserveRetarget(kind entity.FocusKind, class entity.Classification)
	SetQueueDepth(ctxID entity.ContextID, depth int)
	IncVeto(property string)
	IncListenerFailure()
}
