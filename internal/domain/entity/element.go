// Package entity contains domain entities representing core focus concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// ElementID uniquely identifies a UI element (window, heavyweight or lightweight
// component). The empty ElementID means "no element".
type ElementID string

// None is the absent element.
const None ElementID = ""

// IsNone reports whether the id refers to no element.
func (id ElementID) IsNone() bool {
	return id == None
}

// String returns the id, or "<none>" for the empty id.
func (id ElementID) String() string {
	if id == None {
		return "<none>"
	}
	return string(id)
}

// ContextID names an isolation context. Each context owns its own focus state.
type ContextID string

// DefaultContext is the context used when callers do not name one.
const DefaultContext ContextID = "default"

// Cause describes why a focus transfer happened.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseActivation
	CauseNativeSystem
	CauseClearGlobalFocusOwner
	CauseRollback
	CauseTraversal
	CauseTraversalForward
	CauseTraversalBackward
	CauseTraversalUp
	CauseTraversalDown
	CauseMouseEvent
)

// String returns a human-readable cause name.
func (c Cause) String() string {
	switch c {
	case CauseUnknown:
		return "unknown"
	case CauseActivation:
		return "activation"
	case CauseNativeSystem:
		return "native-system"
	case CauseClearGlobalFocusOwner:
		return "clear-global-focus-owner"
	case CauseRollback:
		return "rollback"
	case CauseTraversal:
		return "traversal"
	case CauseTraversalForward:
		return "traversal-forward"
	case CauseTraversalBackward:
		return "traversal-backward"
	case CauseTraversalUp:
		return "traversal-up"
	case CauseTraversalDown:
		return "traversal-down"
	case CauseMouseEvent:
		return "mouse-event"
	default:
		return "unknown"
	}
}

// ParseCause maps a cause name back to its value. Unknown names map to CauseUnknown.
func ParseCause(s string) Cause {
	for c := CauseUnknown; c <= CauseMouseEvent; c++ {
		if c.String() == s {
			return c
		}
	}
	return CauseUnknown
}
