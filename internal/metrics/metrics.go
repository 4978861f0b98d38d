package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid_request"
	OutcomeFailure  = "store_failure"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	PolicyOperations *prometheus.CounterVec
	PolicyDuration   *prometheus.HistogramVec
	EntityResolved   *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PolicyOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insure_policy_operations_total",
			Help: "Policy create/update operations by type and outcome",
		}, []string{"operation", "policy_type", "outcome"}),
		PolicyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "insure_policy_operation_duration_seconds",
			Help:    "Duration of policy transactions",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		EntityResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insure_entity_references_resolved_total",
			Help: "Person and vehicle references resolved by kind",
		}, []string{"entity", "kind"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insure_policy_events_published_total",
			Help: "Policy events handed to the broker",
		}, []string{"event_type", "outcome"}),
	}
}

func (m *Metrics) ObservePolicyOperation(operation, policyType, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.PolicyOperations.WithLabelValues(operation, policyType, outcome).Inc()
	m.PolicyDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) IncEntityResolved(entity, kind string) {
	if m == nil {
		return
	}
	m.EntityResolved.WithLabelValues(entity, kind).Inc()
}

func (m *Metrics) IncEventPublished(eventType, outcome string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
