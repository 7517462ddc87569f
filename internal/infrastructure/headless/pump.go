package headless

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
	"github.com/bnema/focuscore/internal/logging"
	"github.com/bnema/focuscore/internal/ui/mainloop"
)

// Dispatcher consumes raw events; the focus manager implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev entity.Event) error
}

// Pump is the headless event-dispatch thread. Raw native events and events
// synthesized by the focus core are posted as main-loop tasks and handed to
// the bound dispatcher in order.
type Pump struct {
	loop *mainloop.Queue

	mu         sync.RWMutex
	dispatcher Dispatcher
	onError    func(error)

	posted     atomic.Uint64
	dispatched atomic.Uint64
	failures   atomic.Uint64
}

var _ port.EventPoster = (*Pump)(nil)

// NewPump creates a pump on loop.
func NewPump(loop *mainloop.Queue) *Pump {
	return &Pump{loop: loop}
}

// Bind sets the dispatcher receiving events. Events posted before Bind are
// dropped when they run.
func (p *Pump) Bind(d Dispatcher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatcher = d
}

// OnError registers fn for listener failures returned by the dispatcher.
func (p *Pump) OnError(fn func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// PostEvent queues ev for dispatch. It never dispatches inline.
func (p *Pump) PostEvent(ctx context.Context, ev entity.Event) {
	ctx = context.WithoutCancel(ctx)
	p.posted.Add(1)
	p.loop.Post(func() { p.dispatch(ctx, ev) })
}

// Post schedules fn on the pump, after the events already queued.
func (p *Pump) Post(fn func()) {
	p.loop.Post(fn)
}

func (p *Pump) dispatch(ctx context.Context, ev entity.Event) {
	p.mu.RLock()
	d, onError := p.dispatcher, p.onError
	p.mu.RUnlock()
	if d == nil {
		logging.FromContext(ctx).Debug().Interface("event", ev).Msg("no dispatcher bound, dropping event")
		return
	}

	p.dispatched.Add(1)
	if err := d.Dispatch(ctx, ev); err != nil {
		p.failures.Add(1)
		logging.FromContext(ctx).Warn().Err(err).Interface("event", ev).Msg("event listener failed")
		if onError != nil {
			onError(err)
		}
	}
}

// Drain runs queued tasks, including the ones they post, until none are left.
func (p *Pump) Drain() int {
	return p.loop.RunPending()
}

// Run pumps events until ctx is done or Close is called.
func (p *Pump) Run(ctx context.Context) error {
	return p.loop.Run(ctx)
}

// Close stops accepting events.
func (p *Pump) Close() {
	p.loop.Close()
}

// Stats reports event counters.
type Stats struct {
	Posted     uint64
	Dispatched uint64
	Failures   uint64
}

func (p *Pump) Stats() Stats {
	return Stats{
		Posted:     p.posted.Load(),
		Dispatched: p.dispatched.Load(),
		Failures:   p.failures.Load(),
	}
}
