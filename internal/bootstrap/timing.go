package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/focuscore/internal/logging"
)

// PhaseTimer records how long each wiring phase took.
// Thread-safe for use from parallel drivers.
type PhaseTimer struct {
	start  time.Time
	phases map[string]time.Duration
	order  []string // Insertion order for logging
	last   time.Time
	mu     sync.Mutex
}

// NewPhaseTimer creates a timer starting from now.
func NewPhaseTimer() *PhaseTimer {
	now := time.Now()
	return &PhaseTimer{
		start:  now,
		phases: make(map[string]time.Duration),
		last:   now,
	}
}

// Mark records the duration since the last mark (or start) for phase.
func (t *PhaseTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] += now.Sub(t.last)
	t.last = now
}

// Phases returns the recorded phases in the order they were first marked.
func (t *PhaseTimer) Phases() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Total returns the elapsed time since the timer was created.
func (t *PhaseTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.start)
}

// Log writes the phases at debug level.
func (t *PhaseTimer) Log(ctx context.Context, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := logging.FromContext(ctx).Debug().Dur("total", time.Since(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg(msg)
}
