package entity

import (
	"fmt"
	"time"
)

// Event is implemented by every event the focus core consumes.
type Event interface {
	// EventTime returns the timestamp the event was created with.
	EventTime() time.Time
}

// FocusKind distinguishes focus-gained from focus-lost notifications.
type FocusKind int

const (
	FocusGained FocusKind = iota
	FocusLost
)

// String returns a human-readable kind name.
func (k FocusKind) String() string {
	switch k {
	case FocusGained:
		return "FOCUS_GAINED"
	case FocusLost:
		return "FOCUS_LOST"
	default:
		return "FOCUS_UNKNOWN"
	}
}

// FocusEvent is a focus-gained or focus-lost notification, either raw (as reported
// by the native layer) or retargeted (as delivered to elements).
type FocusEvent struct {
	Kind      FocusKind
	Source    ElementID
	Opposite  ElementID
	Temporary bool
	Cause     Cause
	When      time.Time
}

// EventTime implements Event.
func (e FocusEvent) EventTime() time.Time { return e.When }

// String renders the event for logs and traces.
func (e FocusEvent) String() string {
	return fmt.Sprintf("%s(src=%s opp=%s temp=%t cause=%s)",
		e.Kind, e.Source, e.Opposite, e.Temporary, e.Cause)
}

// NewFocusGained builds a FOCUS_GAINED event.
func NewFocusGained(source, opposite ElementID, temporary bool, cause Cause) FocusEvent {
	return FocusEvent{Kind: FocusGained, Source: source, Opposite: opposite, Temporary: temporary, Cause: cause}
}

// NewFocusLost builds a FOCUS_LOST event.
func NewFocusLost(source, opposite ElementID, temporary bool, cause Cause) FocusEvent {
	return FocusEvent{Kind: FocusLost, Source: source, Opposite: opposite, Temporary: temporary, Cause: cause}
}

// WindowKind enumerates top-level window notifications.
type WindowKind int

const (
	WindowGainedFocus WindowKind = iota
	WindowLostFocus
	WindowActivated
	WindowDeactivated
)

// String returns a human-readable kind name.
func (k WindowKind) String() string {
	switch k {
	case WindowGainedFocus:
		return "WINDOW_GAINED_FOCUS"
	case WindowLostFocus:
		return "WINDOW_LOST_FOCUS"
	case WindowActivated:
		return "WINDOW_ACTIVATED"
	case WindowDeactivated:
		return "WINDOW_DEACTIVATED"
	default:
		return "WINDOW_UNKNOWN"
	}
}

// WindowEvent reports a change of focused or active top-level window.
type WindowEvent struct {
	Kind     WindowKind
	Window   ElementID
	Opposite ElementID
	When     time.Time
}

// EventTime implements Event.
func (e WindowEvent) EventTime() time.Time { return e.When }

// String renders the event for logs and traces.
func (e WindowEvent) String() string {
	return fmt.Sprintf("%s(win=%s opp=%s)", e.Kind, e.Window, e.Opposite)
}

// KeyEvent is a keyboard event routed to the focus owner.
type KeyEvent struct {
	Code    int
	Rune    rune
	Pressed bool
	When    time.Time
}

// EventTime implements Event.
func (e KeyEvent) EventTime() time.Time { return e.When }

// String renders the event for logs and traces.
func (e KeyEvent) String() string {
	state := "released"
	if e.Pressed {
		state = "pressed"
	}
	return fmt.Sprintf("KEY(code=%d rune=%q %s)", e.Code, e.Rune, state)
}
