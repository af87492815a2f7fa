package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initConversionMetrics() {
	factory := promauto.With(r.registry)

	r.ConversionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Graph conversions by output format and outcome",
		},
		[]string{"format", "status"},
	)

	r.ConversionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting a graph",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"format"},
	)

	r.TriplesEmitted = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "triples_emitted",
			Help:      "Number of triples produced per conversion",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.DegradedConversions = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_conversions_total",
			Help:      "Conversions of graphs without a criteria branch",
		},
	)

	r.CyclicGraphsRejected = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cyclic_graphs_rejected_total",
			Help:      "Graphs rejected because their criteria structure is cyclic",
		},
	)

	r.CacheHitsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Conversions served from the result cache",
		},
	)

	r.CacheMissesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Conversions computed because no cached result existed",
		},
	)

	r.SinkFailuresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Failed deliveries to the archive, store or event sinks",
		},
		[]string{"sink"},
	)
}
