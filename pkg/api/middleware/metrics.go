package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder records HTTP metrics.
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration, size int)
	IncInFlight()
	DecInFlight()
}

// Metrics tracks request counts, latency, size and in-flight requests. It
// must wrap the ServeMux directly: the path label is the matched route
// pattern, which the mux stores on the request it receives.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.IncInFlight()
			defer recorder.DecInFlight()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}
			recorder.RecordHTTPRequest(r.Method, path, strconv.Itoa(sw.statusCode), time.Since(start), sw.bytesWritten)
		})
	}
}
