package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-guidelines/pkg/logging"
)

// Logging logs one line per request with status and latency. 5xx
// responses are logged at error level, 4xx at warn.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", sw.statusCode),
				logging.Int("bytes", sw.bytesWritten),
				logging.Latency(time.Since(start)),
			}
			if id := GetRequestID(r); id != "" {
				fields = append(fields, logging.RequestID(id))
			}

			switch {
			case sw.statusCode >= 500:
				logger.Error("HTTP request", fields...)
			case sw.statusCode >= 400:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		})
	}
}
