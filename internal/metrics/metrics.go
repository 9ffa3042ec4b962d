// Package metrics exposes Prometheus counters and histograms for the SCIM
// PATCH/filter HTTP service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scim"

// Metrics holds the collectors registered for one service instance.
type Metrics struct {
	registry *prometheus.Registry

	PatchRequestsTotal *prometheus.CounterVec
	PatchDuration      *prometheus.HistogramVec
	FilterEvaluations  *prometheus.CounterVec
}

// New builds a Metrics instance and registers its collectors against a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PatchRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patch",
			Name:      "requests_total",
			Help:      "Number of PATCH operations applied, labeled by op and outcome.",
		}, []string{"op", "outcome"}),
		PatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "patch",
			Name:      "duration_seconds",
			Help:      "Time to apply a PatchOp request body.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		FilterEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "evaluations_total",
			Help:      "Number of filter expressions evaluated, labeled by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.PatchRequestsTotal, m.PatchDuration, m.FilterEvaluations)
	return m
}

// Handler serves the registry's metrics in the Prometheus exposition
// format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePatch records the outcome and latency of one ApplyPatches call.
func (m *Metrics) ObservePatch(op, outcome string, seconds float64) {
	m.PatchRequestsTotal.WithLabelValues(op, outcome).Inc()
	m.PatchDuration.WithLabelValues(outcome).Observe(seconds)
}

// ObserveFilterEvaluation records the outcome of one filter evaluation.
func (m *Metrics) ObserveFilterEvaluation(outcome string) {
	m.FilterEvaluations.WithLabelValues(outcome).Inc()
}
