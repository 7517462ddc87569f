package entity

import "time"

// GateResult is the decision taken for a proposed native focus change.
type GateResult int

const (
	// GateFailure rejects the request; the caller must not touch native focus.
	GateFailure GateResult = iota
	// GateHandled means the request was absorbed without a native round-trip.
	GateHandled
	// GateProceed means the request was queued and the native transfer must be performed.
	GateProceed
)

// String returns a human-readable result name.
func (r GateResult) String() string {
	switch r {
	case GateFailure:
		return "failure"
	case GateHandled:
		return "handled"
	case GateProceed:
		return "proceed"
	default:
		return "unknown"
	}
}

// NativeFocusRequest describes a proposed transfer of native focus.
type NativeFocusRequest struct {
	// Heavyweight is the native-backed element that must own native focus.
	Heavyweight ElementID
	// Lightweight is the logical target. Empty means the heavyweight itself.
	Lightweight         ElementID
	Temporary           bool
	WindowChangeAllowed bool
	When                time.Time
	Cause               Cause
}

// Target returns the logical element the request wants focused.
func (r NativeFocusRequest) Target() ElementID {
	if r.Lightweight.IsNone() {
		return r.Heavyweight
	}
	return r.Lightweight
}

// Classification records how the retargeter interpreted a raw focus event.
type Classification int

const (
	// ClassConfirmed: a gained event confirmed the head request.
	ClassConfirmed Classification = iota
	// ClassMatched: a lost event matched the head request's target.
	ClassMatched
	// ClassClearConfirmed: a lost event confirmed a clear-global-focus-owner request.
	ClassClearConfirmed
	// ClassActivationEcho: a gained event for the owner's own top-level.
	ClassActivationEcho
	// ClassLeftApplication: a lost event with no opposite.
	ClassLeftApplication
	// ClassWindowChange: a lost event caused by an unrequested top-level change.
	ClassWindowChange
	// ClassSuppressed: the compensating lost generated for a confirmed gained.
	ClassSuppressed
	// ClassPassThrough: delivered unchanged.
	ClassPassThrough
	// ClassRepaired: unexpected event, repaired best-effort.
	ClassRepaired
)

// String returns a human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassConfirmed:
		return "confirmed"
	case ClassMatched:
		return "matched"
	case ClassClearConfirmed:
		return "clear-confirmed"
	case ClassActivationEcho:
		return "activation-echo"
	case ClassLeftApplication:
		return "left-application"
	case ClassWindowChange:
		return "window-change"
	case ClassSuppressed:
		return "suppressed"
	case ClassPassThrough:
		return "pass-through"
	case ClassRepaired:
		return "repaired"
	default:
		return "unknown"
	}
}
