package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-guidelines/pkg/api/middleware"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/logic"
	"github.com/dd0wney/cluso-guidelines/pkg/recommendation"
	"github.com/dd0wney/cluso-guidelines/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	middleware.WriteError(w, status, message)
}

// decodeGraph reads the request body as a graph document. It writes the
// error response itself and reports whether decoding succeeded.
func (s *Server) decodeGraph(w http.ResponseWriter, r *http.Request) (*guideline.Graph, bool) {
	var g guideline.Graph
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&g); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid graph document: %v", err))
		return nil, false
	}
	return &g, true
}

// statusFor maps a conversion error onto an HTTP status. Anything not
// recognised is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidGraph), errors.Is(err, recommendation.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrCyclicStructure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondConversionError writes err with its mapped status. Internal
// error details are logged, not returned.
func (s *Server) respondConversionError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Conversion request failed",
			logging.Path(r.URL.Path),
			logging.RequestID(middleware.GetRequestID(r)),
			logging.Error(err),
		)
		s.respondError(w, status, "internal server error")
		return
	}
	s.respondError(w, status, err.Error())
}
