package records

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks record validation outcomes.
//
// Counters:
//   - recordkit_records_validated_total{form, outcome}: documents run
//     through the pipeline, outcome is "valid" or "invalid"
//   - recordkit_records_failures_total{form}: calls aborted by a system
//     fault (unparseable rules, store failure)
type Metrics struct {
	registry  *prometheus.Registry
	validated *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewMetrics creates and registers the module's collectors. A nil registry
// gets its own private one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		validated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordkit",
				Subsystem: "records",
				Name:      "validated_total",
				Help:      "Documents run through the validation pipeline by form and outcome.",
			},
			[]string{"form", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordkit",
				Subsystem: "records",
				Name:      "failures_total",
				Help:      "Validation calls aborted by a system fault, by form.",
			},
			[]string{"form"},
		),
	}

	registry.MustRegister(m.validated, m.failures)
	return m
}

func (m *Metrics) observe(form string, errCount int) {
	outcome := "valid"
	if errCount > 0 {
		outcome = "invalid"
	}
	m.validated.WithLabelValues(form, outcome).Inc()
}

func (m *Metrics) observeFailure(form string) {
	m.failures.WithLabelValues(form).Inc()
}

// Handler exposes the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
