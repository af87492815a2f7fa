package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/dd0wney/cluso-guidelines/pkg/export"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/recommendation"
)

// RootResponse is the body of GET /.
type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, RootResponse{Status: "ok", Message: RootMessage})
}

func (s *Server) handleTriples(w http.ResponseWriter, r *http.Request) {
	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	res, err := s.service.Triples(r.Context(), g)
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	out := res.Triples
	if out == nil {
		out = []guideline.Triple{}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleTurtle(w http.ResponseWriter, r *http.Request) {
	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	text, err := s.service.Turtle(r.Context(), g)
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	file, err := s.service.XLSX(r.Context(), g)
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("Failed to remove spreadsheet", logging.Error(err))
		}
	}()

	f, err := os.Open(file.Path)
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warn("Spreadsheet download interrupted", logging.Error(err))
	}
}

func (s *Server) handleIdentifiers(w http.ResponseWriter, r *http.Request) {
	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	ids, err := s.service.Identifiers(r.Context(), g)
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	if ids == nil {
		ids = map[string]string{}
	}
	s.respondJSON(w, http.StatusOK, ids)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	rows, err := s.service.Recommendation(r.Context(), data, selectionFrom(r))
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRecommendationTurtle(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	text, err := s.service.RecommendationTurtle(r.Context(), data, selectionFrom(r))
	if err != nil {
		s.respondConversionError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// selectionFrom reads the optional document and disease query parameters.
func selectionFrom(r *http.Request) recommendation.Selection {
	q := r.URL.Query()
	return recommendation.Selection{Document: q.Get("document"), Disease: q.Get("disease")}
}

// readBody reads the raw request body, answering 413 or 400 itself when
// that fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(r.Body)
	if err == nil {
		return data, true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	s.respondError(w, http.StatusBadRequest, "failed to read request body")
	return nil, false
}
