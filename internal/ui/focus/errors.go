package focus

import (
	"errors"
	"fmt"

	"github.com/bnema/focuscore/internal/domain/entity"
)

var (
	// ErrNotFocusable is returned when a proposed focus owner cannot own focus.
	ErrNotFocusable = errors.New("element is not focusable")
	// ErrNotWindow is returned when a proposed focused/active window is not an eligible window.
	ErrNotWindow = errors.New("element is not an eligible window")
	// ErrNotCycleRoot is returned when a proposed focus cycle root is not one.
	ErrNotCycleRoot = errors.New("element is not a focus cycle root")
	// ErrNotDisplayable is returned when a request targets an element with no native container.
	ErrNotDisplayable = errors.New("element has no native container")
	// ErrUnauthorized wraps a refusal from the configured Authorizer.
	ErrUnauthorized = errors.New("focus operation not authorized")
	// ErrManagerDisposed is returned by operations on a manager that was replaced or removed.
	ErrManagerDisposed = errors.New("focus manager disposed")
)

// VetoError reports that a vetoable listener rejected a property change.
type VetoError struct {
	Property Property
	Old      any
	New      any
	Err      error
}

func (e *VetoError) Error() string {
	return fmt.Sprintf("change of %s from %v to %v vetoed: %v", e.Property, e.Old, e.New, e.Err)
}

func (e *VetoError) Unwrap() error {
	return e.Err
}

// ListenerError captures a failure raised while delivering an event to an
// element's listeners, either a returned error or a recovered panic.
type ListenerError struct {
	Target entity.ElementID
	Event  entity.Event
	Err    error
	Panic  any
}

func (e *ListenerError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("listener for %s panicked on %v: %v", e.Target, e.Event, e.Panic)
	}
	return fmt.Sprintf("listener for %s failed on %v: %v", e.Target, e.Event, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}
