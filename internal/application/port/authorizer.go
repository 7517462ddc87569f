package port

import "context"

// FocusAction names a state-changing facade operation subject to authorization.
type FocusAction string

const (
	ActionRequestFocus    FocusAction = "request-focus"
	ActionClearFocusOwner FocusAction = "clear-focus-owner"
	ActionSetFocusState   FocusAction = "set-focus-state"
	ActionInstallManager  FocusAction = "install-manager"
	ActionKeyEventRouting FocusAction = "key-event-routing"
)

// Authorizer optionally vets state-changing focus operations. A nil Authorizer
// allows everything.
type Authorizer interface {
	Authorize(ctx context.Context, action FocusAction) error
}
