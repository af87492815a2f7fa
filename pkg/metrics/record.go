package metrics

import "time"

// Conversion outcomes.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusInvalid  = "invalid"
	StatusCyclic   = "cyclic"
	StatusError    = "error"
)

// RecordHTTPRequest records a served request.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration, size int) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(size))
}

// RecordConversion records one conversion of a graph to format.
func (r *Registry) RecordConversion(format, status string, duration time.Duration, triples int) {
	r.ConversionsTotal.WithLabelValues(format, status).Inc()
	r.ConversionDuration.WithLabelValues(format).Observe(duration.Seconds())
	switch status {
	case StatusOK, StatusDegraded:
		r.TriplesEmitted.Observe(float64(triples))
	case StatusCyclic:
		r.CyclicGraphsRejected.Inc()
	}
	if status == StatusDegraded {
		r.DegradedConversions.Inc()
	}
}

// RecordCache records a cache lookup.
func (r *Registry) RecordCache(hit bool) {
	if hit {
		r.CacheHitsTotal.Inc()
		return
	}
	r.CacheMissesTotal.Inc()
}

// RecordSinkFailure records a failed delivery to sink.
func (r *Registry) RecordSinkFailure(sink string) {
	r.SinkFailuresTotal.WithLabelValues(sink).Inc()
}

// IncInFlight marks a request as started.
func (r *Registry) IncInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecInFlight marks a request as finished.
func (r *Registry) DecInFlight() {
	r.HTTPRequestsInFlight.Dec()
}
