// Package metrics exports focus core counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/domain/entity"
)

const namespace = "focuscore"

// FocusMetrics implements port.FocusMetrics on a private Prometheus registry.
type FocusMetrics struct {
	registry *prometheus.Registry

	GateDecisions    *prometheus.CounterVec
	Retargets        *prometheus.CounterVec
	QueueDepth       *prometheus.GaugeVec
	Vetoes           *prometheus.CounterVec
	ListenerFailures prometheus.Counter
}

var _ port.FocusMetrics = (*FocusMetrics)(nil)

// New creates the focus metrics and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *FocusMetrics {
	m := &FocusMetrics{
		registry: prometheus.NewRegistry(),

		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "decisions_total",
				Help:      "Native focus requests by gate decision",
			},
			[]string{"result"},
		),

		Retargets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "retarget",
				Name:      "events_total",
				Help:      "Raw focus events by kind and classification",
			},
			[]string{"kind", "class"},
		),

		QueueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Heavyweight requests awaiting native confirmation",
			},
			[]string{"context"},
		),

		Vetoes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "vetoes_total",
				Help:      "Vetoed focus state changes by property",
			},
			[]string{"property"},
		),

		ListenerFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "listener_failures_total",
				Help:      "Listener errors and panics captured during dispatch",
			},
		),
	}

	m.registry.MustRegister(
		m.GateDecisions,
		m.Retargets,
		m.QueueDepth,
		m.Vetoes,
		m.ListenerFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the focus metrics.
func (m *FocusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *FocusMetrics) ObserveGate(result entity.GateResult) {
	m.GateDecisions.WithLabelValues(result.String()).Inc()
}

func (m *FocusMetrics) ObserveRetarget(kind entity.FocusKind, class entity.Classification) {
	m.Retargets.WithLabelValues(kind.String(), class.String()).Inc()
}

func (m *FocusMetrics) SetQueueDepth(ctxID entity.ContextID, depth int) {
	m.QueueDepth.WithLabelValues(string(ctxID)).Set(float64(depth))
}

func (m *FocusMetrics) IncVeto(property string) {
	m.Vetoes.WithLabelValues(property).Inc()
}

func (m *FocusMetrics) IncListenerFailure() {
	m.ListenerFailures.Inc()
}
