// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the conversion pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "guidelines"

// Registry holds every collector of the service on its own Prometheus
// registry, so tests can create isolated instances.
type Registry struct {
	// HTTP
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Conversion pipeline
	ConversionsTotal      *prometheus.CounterVec
	ConversionDuration    *prometheus.HistogramVec
	TriplesEmitted        prometheus.Histogram
	DegradedConversions   prometheus.Counter
	CyclicGraphsRejected  prometheus.Counter
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
	SinkFailuresTotal     *prometheus.CounterVec
	AuthFailuresTotal     prometheus.Counter

	// Process
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}
	r.initHTTPMetrics()
	r.initConversionMetrics()
	r.initSystemMetrics()
	return r
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format. Process
// gauges are refreshed on every scrape.
func (r *Registry) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		inner.ServeHTTP(w, req)
	})
}
