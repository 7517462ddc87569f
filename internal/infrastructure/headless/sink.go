package headless

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
)

// DefaultEventBuffer is the number of deliveries a Sink remembers.
const DefaultEventBuffer = 256

// Delivery is one event handed to an element.
type Delivery struct {
	Seq    uint64
	Target entity.ElementID
	Event  entity.Event
}

// String renders the delivery for traces.
func (d Delivery) String() string {
	return fmt.Sprintf("#%d %s <- %v", d.Seq, d.Target, d.Event)
}

// Listener is an element-level event handler. A returned error or a panic is
// reported back to the focus core.
type Listener func(ctx context.Context, ev entity.Event) error

// Sink delivers retargeted events to per-element listeners and keeps the most
// recent deliveries in a ring buffer.
type Sink struct {
	mu        sync.Mutex
	ring      []Delivery
	next      int
	full      bool
	seq       uint64
	listeners map[entity.ElementID][]Listener
	watchers  map[int]func(Delivery)
	watchID   int
}

var _ port.EventSink = (*Sink)(nil)

// NewSink creates a sink remembering up to capacity deliveries.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultEventBuffer
	}
	return &Sink{
		ring:      make([]Delivery, capacity),
		listeners: make(map[entity.ElementID][]Listener),
		watchers:  make(map[int]func(Delivery)),
	}
}

// Listen registers fn for events delivered to id.
func (s *Sink) Listen(id entity.ElementID, fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[id] = append(s.listeners[id], fn)
}

// Watch calls fn for every delivery until the returned func is called.
// fn runs on the delivering goroutine and must not call back into the sink.
func (s *Sink) Watch(fn func(Delivery)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchID++
	id := s.watchID
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

func (s *Sink) DeliverFocus(ctx context.Context, ev entity.FocusEvent) error {
	return s.deliver(ctx, ev.Source, ev)
}

func (s *Sink) DeliverWindow(ctx context.Context, ev entity.WindowEvent) error {
	return s.deliver(ctx, ev.Window, ev)
}

func (s *Sink) DeliverKey(ctx context.Context, ev entity.KeyEvent, target entity.ElementID) error {
	return s.deliver(ctx, target, ev)
}

func (s *Sink) deliver(ctx context.Context, target entity.ElementID, ev entity.Event) error {
	s.mu.Lock()
	s.seq++
	d := Delivery{Seq: s.seq, Target: target, Event: ev}
	s.ring[s.next] = d
	s.next = (s.next + 1) % len(s.ring)
	if s.next == 0 {
		s.full = true
	}
	listeners := append([]Listener(nil), s.listeners[target]...)
	watchers := make([]func(Delivery), 0, len(s.watchers))
	for id := 1; id <= s.watchID; id++ {
		if fn, ok := s.watchers[id]; ok {
			watchers = append(watchers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(d)
	}
	var last error
	for _, fn := range listeners {
		if err := fn(ctx, ev); err != nil {
			last = err
		}
	}
	return last
}

// Recent returns the remembered deliveries, oldest first.
func (s *Sink) Recent() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return append([]Delivery(nil), s.ring[:s.next]...)
	}
	out := make([]Delivery, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	return append(out, s.ring[:s.next]...)
}

// Delivered returns the total number of deliveries.
func (s *Sink) Delivered() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// FocusTrace returns the remembered focus events, oldest first.
func (s *Sink) FocusTrace() []entity.FocusEvent {
	var out []entity.FocusEvent
	for _, d := range s.Recent() {
		if fe, ok := d.Event.(entity.FocusEvent); ok {
			out = append(out, fe)
		}
	}
	return out
}

// FailingListener returns a listener that fails every event of kind.
func FailingListener(kind entity.FocusKind, msg string) Listener {
	return func(_ context.Context, ev entity.Event) error {
		if fe, ok := ev.(entity.FocusEvent); ok && fe.Kind == kind {
			return fmt.Errorf("%s: %s", fe.Source, msg)
		}
		return nil
	}
}
