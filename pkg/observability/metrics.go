// Package observability exposes the engine's lifecycle as prometheus
// metrics. The engine itself never serves metrics over the network;
// hosts register the set with their own prometheus registry and expose
// it however they expose the rest of their telemetry.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/formery/formery/pkg/domain"
)

// Metrics is the engine's metric set.
type Metrics struct {
	// NotationsLoaded counts notations successfully parsed and indexed
	// by the registry.
	NotationsLoaded prometheus.Counter
	// ParseFailures counts source files skipped during directory loads.
	ParseFailures prometheus.Counter
	// StateVisits counts state entries per notation and state.
	StateVisits *prometheus.CounterVec
	// FlowsCompleted counts completed instances per notation and kind.
	FlowsCompleted *prometheus.CounterVec
}

// New registers the metric set with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NotationsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "formery_notations_loaded_total",
			Help: "Notations successfully parsed and indexed by the registry.",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "formery_parse_failures_total",
			Help: "Notation source files skipped because they failed to parse.",
		}),
		StateVisits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formery_state_visits_total",
			Help: "State entries during flow execution.",
		}, []string{"notation", "state"}),
		FlowsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formery_flows_completed_total",
			Help: "Flow instances that reached END.",
		}, []string{"notation", "kind"}),
	}
}

// Hooks adapts the metric set into runtime lifecycle hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(e *domain.FlowEvent) {
			m.StateVisits.WithLabelValues(e.Notation, string(e.State)).Inc()
		},
		OnComplete: func(e *domain.FlowEvent) {
			m.FlowsCompleted.WithLabelValues(e.Notation, string(e.Kind)).Inc()
		},
	}
}
