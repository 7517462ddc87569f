package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/bootstrap"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/infrastructure/config"
	"github.com/bnema/focuscore/internal/infrastructure/headless"
	"github.com/bnema/focuscore/internal/logging"
	"github.com/bnema/focuscore/internal/ui/focus"
)

// ErrVetoed is returned by the vetoes a scenario installs.
var ErrVetoed = errors.New("vetoed by scenario")

// Failure is one unmet expectation or unexpected step error.
type Failure struct {
	Step    int
	Action  Action
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d (%s): %s", f.Step, f.Action, f.Message)
}

// Result is the outcome of a scenario run.
type Result struct {
	Name     string
	RunID    string
	Steps    int
	Failures []Failure
	Trace    []headless.Delivery
	Final    focus.Snapshot
	Stats    headless.Stats
	Elapsed  time.Duration
}

// Passed reports whether every step met its expectations.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Runner executes scenarios, each on a fresh headless toolkit.
type Runner struct {
	cfg     *config.Config
	metrics port.FocusMetrics
	auth    port.Authorizer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics records focus metrics of every run in m.
func WithMetrics(m port.FocusMetrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithAuthorizer checks every focus operation of a run against a.
func WithAuthorizer(a port.Authorizer) RunnerOption {
	return func(r *Runner) { r.auth = a }
}

// NewRunner creates a runner; cfg may be nil for defaults.
func NewRunner(cfg *config.Config, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clock is a deterministic clock that advances one millisecond per reading,
// so every event and request gets a distinct timestamp.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the next timestamp.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// run carries the state of one scenario execution.
type run struct {
	h      *bootstrap.Headless
	clock  *Clock
	cursor uint64
	res    *Result
}

// Run executes sc. Setup errors are returned; step problems are reported as
// failures in the result.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := logging.NewRunID(start)
	ctx = logging.WithRunID(logging.WithComponent(ctx, "scenario"), runID)
	log := logging.FromContext(ctx)

	cfg := *r.cfg
	if sc.Focus != nil {
		cfg.Focus = *sc.Focus
	}
	clock := NewClock(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	h, err := bootstrap.NewHeadless(ctx, bootstrap.HeadlessInput{
		Config:     &cfg,
		Metrics:    r.metrics,
		Authorizer: r.auth,
		Clock:      clock.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	defer h.Pump.Close()

	if err := build(h, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	st := &run{h: h, clock: clock, res: &Result{Name: sc.Name, RunID: runID, Steps: len(sc.Steps)}}
	for i, step := range sc.Steps {
		n := i + 1
		log.Debug().Int("step", n).Str("action", string(step.Action)).Str("target", step.Target).Msg("running step")
		st.exec(ctx, n, step)
		if sc.AutoSettle && step.Action != ActionExpect {
			h.Settle()
		}
	}
	h.Settle()

	st.res.Trace = h.Sink.Recent()
	st.res.Final = h.Manager().State().Snapshot()
	st.res.Stats = h.Pump.Stats()
	st.res.Elapsed = time.Since(start)
	log.Info().
		Str("scenario", sc.Name).
		Int("steps", len(sc.Steps)).
		Int("failures", len(st.res.Failures)).
		Dur("elapsed", st.res.Elapsed).
		Msg("scenario finished")
	return st.res, nil
}

func build(h *bootstrap.Headless, sc *Scenario) error {
	for _, el := range sc.Elements {
		spec, err := el.Spec()
		if err != nil {
			return err
		}
		if err := h.Tree.Add(spec); err != nil {
			return err
		}
	}
	for _, l := range sc.Listeners {
		kind, err := l.Kind()
		if err != nil {
			return err
		}
		msg := l.Message
		if msg == "" {
			msg = "listener failure"
		}
		h.Sink.Listen(entity.ElementID(l.Element), headless.FailingListener(kind, msg))
	}
	m := h.Manager()
	for _, v := range sc.Vetoes {
		reject := entity.ElementID(v.Reject)
		m.OnVetoableChange(focus.Property(v.Property), func(_ context.Context, ch focus.PropertyChange) error {
			if id, ok := ch.New.(entity.ElementID); ok && id == reject {
				return ErrVetoed
			}
			return nil
		})
	}
	return nil
}

func (st *run) fail(n int, step Step, format string, args ...any) {
	st.res.Failures = append(st.res.Failures, Failure{
		Step:    n,
		Action:  step.Action,
		Message: fmt.Sprintf(format, args...),
	})
}

func (st *run) exec(ctx context.Context, n int, step Step) {
	if step.Action == ActionExpect {
		st.expect(n, step)
		return
	}

	granted, err := st.do(ctx, step)
	switch {
	case step.WantError != "" && err == nil:
		st.fail(n, step, "want error containing %q, got none", step.WantError)
	case step.WantError != "" && !strings.Contains(err.Error(), step.WantError):
		st.fail(n, step, "want error containing %q, got %v", step.WantError, err)
	case step.WantError == "" && err != nil:
		st.fail(n, step, "unexpected error: %v", err)
	}
	if step.Granted != nil && granted != *step.Granted {
		st.fail(n, step, "granted = %t, want %t", granted, *step.Granted)
	}
}

// do performs a step and reports whether a focus request was granted.
func (st *run) do(ctx context.Context, step Step) (bool, error) {
	h := st.h
	m := h.Manager()
	target := entity.ElementID(step.Target)

	switch step.Action {
	case ActionActivate:
		return true, h.Peer.Activate(ctx, target)
	case ActionDeactivate:
		h.Peer.Deactivate(ctx)
	case ActionRequest:
		if step.Sync {
			return m.RequestFocusSync(ctx, target, step.Temporary)
		}
		return m.RequestFocus(ctx, target, focus.RequestOptions{
			Temporary:           step.Temporary,
			WindowChangeAllowed: step.CrossWindow,
		})
	case ActionSettle:
		h.Settle()
	case ActionType:
		h.Peer.Type(ctx, step.Code, step.KeyRune())
	case ActionClear:
		return true, m.ClearGlobalFocusOwner(ctx)
	case ActionNext:
		return m.FocusNextComponent(ctx, target)
	case ActionPrevious:
		return m.FocusPreviousComponent(ctx, target)
	case ActionUp:
		return m.UpFocusCycle(ctx, target)
	case ActionDown:
		return m.DownFocusCycle(ctx, target)
	case ActionCycleRoot:
		return true, m.SetCurrentFocusCycleRoot(ctx, target)
	case ActionRemove:
		return true, h.RemoveElement(ctx, target)
	case ActionRefuse, ActionAccept:
		if _, ok := h.Tree.Lookup(target); !ok {
			return false, fmt.Errorf("%s %s: %w", step.Action, target, headless.ErrUnknownElement)
		}
		h.Peer.Refuse(target, step.Action == ActionRefuse)
	case ActionDisable, ActionEnable, ActionHide, ActionShow:
		return true, h.Tree.Update(target, func(s *headless.Spec) {
			switch step.Action {
			case ActionDisable:
				s.Disabled = true
			case ActionEnable:
				s.Disabled = false
			case ActionHide:
				s.Hidden = true
			case ActionShow:
				s.Hidden = false
			}
		})
	case ActionWait:
		st.clock.Advance(time.Duration(step.Ms) * time.Millisecond)
	case ActionDiscard:
		m.DiscardKeyEvents(target)
	default:
		return false, fmt.Errorf("unknown action %q", step.Action)
	}
	return true, nil
}

func (st *run) expect(n int, step Step) {
	m := st.h.Manager()
	snap := m.State().Snapshot()

	checkID := func(name string, want *string, got entity.ElementID) {
		if want != nil && entity.ElementID(*want) != got {
			st.fail(n, step, "%s = %s, want %s", name, got, entity.ElementID(*want))
		}
	}
	checkInt := func(name string, want *int, got int) {
		if want != nil && *want != got {
			st.fail(n, step, "%s = %d, want %d", name, got, *want)
		}
	}
	checkID("focus owner", step.Owner, snap.FocusOwner)
	checkID("permanent focus owner", step.Permanent, snap.PermanentFocusOwner)
	checkID("focused window", step.Window, snap.FocusedWindow)
	checkID("active window", step.Active, snap.ActiveWindow)
	checkID("focus cycle root", step.CycleRoot, snap.CurrentFocusCycleRoot)
	checkInt("queue depth", step.Queue, m.Queue().Len())
	checkInt("markers", step.Markers, st.h.Keys.Markers())
	checkInt("held keys", step.Held, st.h.Keys.Held())
	checkInt("listener errors", step.ListenerErrors, int(st.h.Pump.Stats().Failures))

	var events, keys []string
	for _, d := range st.h.Sink.Recent() {
		if d.Seq <= st.cursor {
			continue
		}
		switch ev := d.Event.(type) {
		case entity.FocusEvent:
			events = append(events, FormatFocus(ev))
		case entity.KeyEvent:
			keys = append(keys, FormatKey(d.Target, ev))
		}
	}
	st.cursor = st.h.Sink.Delivered()

	if step.Events != nil && !slices.Equal(events, step.Events) {
		st.fail(n, step, "events = %q, want %q", events, step.Events)
	}
	if step.Keys != nil && !slices.Equal(keys, step.Keys) {
		st.fail(n, step, "keys = %q, want %q", keys, step.Keys)
	}
}

// FormatFocus renders ev the way scenario files spell expected events:
// "gained B from A", "lost A to B", with " (temp)" for temporary changes.
func FormatFocus(ev entity.FocusEvent) string {
	var b strings.Builder
	switch ev.Kind {
	case entity.FocusGained:
		b.WriteString("gained ")
		b.WriteString(ev.Source.String())
		if !ev.Opposite.IsNone() {
			b.WriteString(" from ")
			b.WriteString(ev.Opposite.String())
		}
	case entity.FocusLost:
		b.WriteString("lost ")
		b.WriteString(ev.Source.String())
		if !ev.Opposite.IsNone() {
			b.WriteString(" to ")
			b.WriteString(ev.Opposite.String())
		}
	default:
		b.WriteString(ev.String())
	}
	if ev.Temporary {
		b.WriteString(" (temp)")
	}
	return b.String()
}

// FormatKey renders a key delivery as "target:rune", or "target:#code" for
// keys without a rune.
func FormatKey(target entity.ElementID, ev entity.KeyEvent) string {
	if ev.Rune != 0 {
		return fmt.Sprintf("%s:%c", target, ev.Rune)
	}
	return fmt.Sprintf("%s:#%d", target, ev.Code)
}
