package middleware

import "net/http"

// BodySizeLimit rejects requests whose declared Content-Length exceeds
// maxBytes and caps the readable body for the rest. Handlers see an
// *http.MaxBytesError when a body without a declared length overruns.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
