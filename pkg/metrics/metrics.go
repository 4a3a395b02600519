// Package metrics exposes Prometheus collectors for upstream calls and
// search aggregation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "peoplesearch"

// Metrics holds the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	searchDuration   prometheus.Histogram
	searchProfiles   prometheus.Histogram
}

// New registers a fresh set of collectors on a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Upstream API calls by provider and outcome status.",
			},
			[]string{"provider", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_call_duration_seconds",
				Help:      "Latency of upstream API calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Wall time of one aggregation.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		searchProfiles: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_profiles_returned",
				Help:      "Profiles returned per aggregation.",
				Buckets:   []float64{0, 1, 2, 5, 10},
			},
		),
	}
	reg.MustRegister(m.upstreamCalls, m.upstreamDuration, m.searchDuration, m.searchProfiles)
	return m
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(provider, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, status).Inc()
	m.upstreamDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveSearch records one aggregation and how many profiles it produced.
func (m *Metrics) ObserveSearch(elapsed time.Duration, profiles int) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(elapsed.Seconds())
	m.searchProfiles.Observe(float64(profiles))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
