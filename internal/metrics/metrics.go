// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "celestial"

// Module provides a fresh registry per fx graph.
var Module = fx.Provide(New)

// Metrics owns the registry and the service collectors.
type Metrics struct {
	Registry *prometheus.Registry

	inFlight     prometheus.Gauge
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	authAttempts *prometheus.CounterVec
}

// New registers the service collectors plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Signup and signin attempts by outcome.",
		}, []string{"operation", "outcome"}),
	}

	m.Registry.MustRegister(
		m.inFlight,
		m.requests,
		m.duration,
		m.authAttempts,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format. Compression is
// left to the router.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{DisableCompression: true})
}

// TrackInFlight increments the in-flight gauge and returns its release func.
func (m *Metrics) TrackInFlight() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// ObserveRequest records a finished request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	method = strings.ToUpper(method)
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordAuth counts a signup or signin attempt.
func (m *Metrics) RecordAuth(operation, outcome string) {
	m.authAttempts.WithLabelValues(operation, outcome).Inc()
}
