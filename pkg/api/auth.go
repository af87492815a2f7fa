package api

import (
	"net/http"

	"github.com/dd0wney/cluso-guidelines/pkg/api/middleware"
	"github.com/dd0wney/cluso-guidelines/pkg/auth"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
)

// requireAuth validates the bearer token when authentication is enabled
// and stores the claims in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.jwtManager == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			s.metricsRegistry.AuthFailuresTotal.Inc()
			s.respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := s.jwtManager.ValidateToken(r.Context(), token)
		if err != nil {
			s.metricsRegistry.AuthFailuresTotal.Inc()
			s.logger.Warn("Token validation failed",
				logging.Path(r.URL.Path),
				logging.RequestID(middleware.GetRequestID(r)),
				logging.Error(err),
			)
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	}
}
