// Package middleware provides the HTTP middleware of the conversion API.
//
// Every middleware has the form func(http.Handler) http.Handler, so they
// chain directly:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.RequestID()(handler)
//	handler = middleware.Logging(logger)(handler)
//
// Error responses share the JSON shape {error, message, code} written by
// WriteError.
package middleware
