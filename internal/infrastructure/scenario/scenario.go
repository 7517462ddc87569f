// Package scenario loads focus scenarios from TOML files. A scenario builds an
// element tree, drives the focus core through a list of steps and checks the
// resulting focus state and event trace.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/ui/focus"
)

// Action names a scenario step.
type Action string

const (
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
	ActionRequest    Action = "request"
	ActionSettle     Action = "settle"
	ActionType       Action = "type"
	ActionClear      Action = "clear"
	ActionNext       Action = "next"
	ActionPrevious   Action = "previous"
	ActionUp         Action = "up"
	ActionDown       Action = "down"
	ActionCycleRoot  Action = "cycle_root"
	ActionRemove     Action = "remove"
	ActionRefuse     Action = "refuse"
	ActionAccept     Action = "accept"
	ActionDisable    Action = "disable"
	ActionEnable     Action = "enable"
	ActionHide       Action = "hide"
	ActionShow       Action = "show"
	ActionWait       Action = "wait"
	ActionDiscard    Action = "discard"
	ActionExpect     Action = "expect"
)

var knownActions = map[Action]bool{
	ActionActivate: true, ActionDeactivate: true, ActionRequest: true,
	ActionSettle: true, ActionType: true, ActionClear: true,
	ActionNext: true, ActionPrevious: true, ActionUp: true, ActionDown: true,
	ActionCycleRoot: true, ActionRemove: true, ActionRefuse: true,
	ActionAccept: true, ActionDisable: true, ActionEnable: true,
	ActionHide: true, ActionShow: true, ActionWait: true,
	ActionDiscard: true, ActionExpect: true,
}

// needsTarget lists the actions that cannot run without a target element.
var needsTarget = map[Action]bool{
	ActionActivate: true, ActionRequest: true, ActionUp: true, ActionDown: true,
	ActionCycleRoot: true, ActionRemove: true, ActionRefuse: true,
	ActionAccept: true, ActionDisable: true, ActionEnable: true,
	ActionHide: true, ActionShow: true, ActionDiscard: true,
}

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the decoded form of a scenario file.
type Scenario struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	// AutoSettle drains the event pump after every step.
	AutoSettle bool `toml:"auto_settle"`
	// Focus overrides the focus section of the configuration.
	Focus *config.FocusConfig `toml:"focus"`

	Elements  []Element  `toml:"element"`
	Listeners []Listener `toml:"listener"`
	Vetoes    []Veto     `toml:"veto"`
	Steps     []Step     `toml:"step"`
}

// Element declares one node of the tree. Parents must be declared first.
type Element struct {
	ID          string `toml:"id"`
	Parent      string `toml:"parent"`
	Owner       string `toml:"owner"`
	Kind        string `toml:"kind"`
	Unfocusable bool   `toml:"unfocusable"`
	Hidden      bool   `toml:"hidden"`
	Disabled    bool   `toml:"disabled"`
	CycleRoot   bool   `toml:"cycle_root"`
}

// Spec converts the declaration into a tree spec.
func (e Element) Spec() (headless.Spec, error) {
	kind, err := headless.ParseKind(e.Kind)
	if err != nil {
		return headless.Spec{}, err
	}
	return headless.Spec{
		ID:          entity.ElementID(e.ID),
		Parent:      entity.ElementID(e.Parent),
		Owner:       entity.ElementID(e.Owner),
		Kind:        kind,
		Unfocusable: e.Unfocusable,
		Hidden:      e.Hidden,
		Disabled:    e.Disabled,
		CycleRoot:   e.CycleRoot,
	}, nil
}

// Listener attaches a failing listener to an element.
type Listener struct {
	Element string `toml:"element"`
	// Fail is "gained" or "lost".
	Fail    string `toml:"fail"`
	Message string `toml:"message"`
}

// Kind returns the focus event kind the listener fails on.
func (l Listener) Kind() (entity.FocusKind, error) {
	switch strings.ToLower(l.Fail) {
	case "gained":
		return entity.FocusGained, nil
	case "lost":
		return entity.FocusLost, nil
	default:
		return 0, fmt.Errorf("listener on %q: unknown event %q (want gained or lost)", l.Element, l.Fail)
	}
}

// Veto rejects changes of Property to Reject.
type Veto struct {
	Property string `toml:"property"`
	Reject   string `toml:"reject"`
}

var vetoableProperties = map[focus.Property]bool{
	focus.PropFocusOwner:            true,
	focus.PropPermanentFocusOwner:   true,
	focus.PropFocusedWindow:         true,
	focus.PropActiveWindow:          true,
	focus.PropCurrentFocusCycleRoot: true,
}

// Step is one action of a scenario. Which fields apply depends on Action.
type Step struct {
	Action Action `toml:"action"`
	Target string `toml:"target"`

	// request
	Temporary   bool  `toml:"temporary"`
	CrossWindow bool  `toml:"cross_window"`
	Sync        bool  `toml:"sync"`
	Granted     *bool `toml:"granted"`
	// WantError is a substring the step's error must contain.
	WantError string `toml:"want_error"`

	// type
	Code int    `toml:"code"`
	Rune string `toml:"rune"`

	// wait
	Ms int `toml:"ms"`

	// expect
	Owner          *string  `toml:"owner"`
	Permanent      *string  `toml:"permanent"`
	Window         *string  `toml:"window"`
	Active         *string  `toml:"active"`
	CycleRoot      *string  `toml:"cycle_root"`
	Queue          *int     `toml:"queue"`
	Markers        *int     `toml:"markers"`
	Held           *int     `toml:"held"`
	ListenerErrors *int     `toml:"listener_errors"`
	Events         []string `toml:"events"`
	Keys           []string `toml:"keys"`
}

// KeyRune returns the rune typed by a type step.
func (s Step) KeyRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Rune)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario for structural errors.
func (sc *Scenario) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(sc.Elements))
	for i, el := range sc.Elements {
		switch {
		case el.ID == "":
			errs = append(errs, fmt.Errorf("element %d: missing id", i))
			continue
		case seen[el.ID]:
			errs = append(errs, fmt.Errorf("element %q: declared twice", el.ID))
		}
		if _, err := el.Spec(); err != nil {
			errs = append(errs, fmt.Errorf("element %q: %w", el.ID, err))
		}
		if el.Parent != "" && !seen[el.Parent] {
			errs = append(errs, fmt.Errorf("element %q: parent %q not declared before it", el.ID, el.Parent))
		}
		seen[el.ID] = true
	}

	for _, l := range sc.Listeners {
		if !seen[l.Element] {
			errs = append(errs, fmt.Errorf("listener: unknown element %q", l.Element))
		}
		if _, err := l.Kind(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, v := range sc.Vetoes {
		if !vetoableProperties[focus.Property(v.Property)] {
			errs = append(errs, fmt.Errorf("veto: property %q is not vetoable", v.Property))
		}
	}

	for i, st := range sc.Steps {
		n := i + 1
		if !knownActions[st.Action] {
			errs = append(errs, fmt.Errorf("step %d: unknown action %q", n, st.Action))
			continue
		}
		if needsTarget[st.Action] && st.Target == "" {
			errs = append(errs, fmt.Errorf("step %d: %s needs a target", n, st.Action))
		}
		if st.Action == ActionType && st.Code == 0 && st.Rune == "" {
			errs = append(errs, fmt.Errorf("step %d: type needs a code or a rune", n))
		}
		if st.Action == ActionWait && st.Ms <= 0 {
			errs = append(errs, fmt.Errorf("step %d: wait needs a positive ms", n))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}
