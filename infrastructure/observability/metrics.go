// Package observability provides Prometheus metrics, OpenTelemetry tracing
// and the HTTP middleware that feeds them.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Wizard metrics
	Advances       *prometheus.CounterVec
	AdvanceLatency *prometheus.HistogramVec
	ActiveSessions prometheus.Gauge

	// Taxonomy service metrics
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec

	// Query metrics
	QueryDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry, so several can
// coexist in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Advances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wizard_advances_total",
				Help:      "Wizard step submissions by step and outcome",
			},
			[]string{"step", "outcome"},
		),
		AdvanceLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "wizard_advance_duration_seconds",
				Help:      "Time spent submitting a wizard step",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "wizard_active_sessions",
				Help:      "Number of live wizard sessions",
			},
		),
		RemoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "taxonomy_calls_total",
				Help:      "Calls to the taxonomy service by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "taxonomy_call_duration_seconds",
				Help:      "Taxonomy service call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Read view query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query", "status"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Advances,
		c.AdvanceLatency,
		c.ActiveSessions,
		c.RemoteCalls,
		c.RemoteDuration,
		c.QueryDuration,
		c.CacheHits,
		c.CacheMisses,
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordAdvance counts a wizard step submission
func (c *Collector) RecordAdvance(step string, outcome string, duration time.Duration) {
	c.Advances.WithLabelValues(step, outcome).Inc()
	c.AdvanceLatency.WithLabelValues(step).Observe(duration.Seconds())
}

// SetActiveSessions reports the number of live sessions
func (c *Collector) SetActiveSessions(count int) {
	c.ActiveSessions.Set(float64(count))
}

// RecordRemoteCall counts a call to the taxonomy service
func (c *Collector) RecordRemoteCall(operation, outcome string, duration time.Duration) {
	c.RemoteCalls.WithLabelValues(operation, outcome).Inc()
	c.RemoteDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordQuery observes a read view query
func (c *Collector) RecordQuery(query, status string, duration time.Duration) {
	c.QueryDuration.WithLabelValues(query, status).Observe(duration.Seconds())
}

// RecordCacheHit counts a read cache hit
func (c *Collector) RecordCacheHit() {
	c.CacheHits.Inc()
}

// RecordCacheMiss counts a read cache miss
func (c *Collector) RecordCacheMiss() {
	c.CacheMisses.Inc()
}
