// Package metrics exposes Prometheus instrumentation for the call path.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CallMetrics holds the collectors the call middleware updates.
type CallMetrics struct {
	registry *prometheus.Registry

	CallsTotal *prometheus.CounterVec
	InFlight   prometheus.Gauge
	Duration   *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry so multiple clients
// in one process do not collide.
func New() *CallMetrics {
	registry := prometheus.NewRegistry()

	m := &CallMetrics{
		registry: registry,
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemarpc",
			Name:      "calls_total",
			Help:      "Commands dispatched, labelled by method and outcome.",
		}, []string{"method", "status"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "schemarpc",
			Name:      "calls_in_flight",
			Help:      "Calls currently blocked awaiting a reply.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "schemarpc",
			Name:      "call_duration_seconds",
			Help:      "Wall time from dispatch to reply delivery.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	registry.MustRegister(m.CallsTotal, m.InFlight, m.Duration)
	return m
}

// Handler returns an HTTP handler serving this client's metrics.
func (m *CallMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one finished call.
func (m *CallMetrics) Observe(method string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CallsTotal.WithLabelValues(method, status).Inc()
	m.Duration.WithLabelValues(method).Observe(seconds)
}
