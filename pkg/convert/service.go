// Package convert is the single entry point every surface (HTTP, GraphQL,
// CLI, TUI) uses to run the interpretation pipeline. It adds validation,
// result caching, metrics, logging and the optional archive, store and
// event sinks around the pure pipeline packages.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-guidelines/pkg/archive"
	"github.com/dd0wney/cluso-guidelines/pkg/cache"
	"github.com/dd0wney/cluso-guidelines/pkg/events"
	"github.com/dd0wney/cluso-guidelines/pkg/export"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/logic"
	"github.com/dd0wney/cluso-guidelines/pkg/metrics"
	"github.com/dd0wney/cluso-guidelines/pkg/ontology"
	"github.com/dd0wney/cluso-guidelines/pkg/recommendation"
	"github.com/dd0wney/cluso-guidelines/pkg/store"
	"github.com/dd0wney/cluso-guidelines/pkg/triples"
	"github.com/dd0wney/cluso-guidelines/pkg/validation"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

// Output formats.
const (
	FormatTriples        = "triples"
	FormatTurtle         = "ttl"
	FormatXLSX           = "xlsx"
	FormatIdentifiers    = "identifiers"
	FormatRecommendation = "recommendation"

	FormatRecommendationTurtle = "recommendation_ttl"
)

// Recorder stores conversion history.
type Recorder interface {
	Insert(ctx context.Context, c *store.Conversion) error
}

// Service runs conversions.
type Service struct {
	vocab     *vocabulary.Vocabulary
	generator *recommendation.Generator
	results   *cache.Cache[*triples.Result]
	logger    logging.Logger
	metrics   *metrics.Registry
	archive   archive.Sink
	recorder  Recorder
	events    events.Publisher
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Service) { s.metrics = r }
}

// WithCache enables result caching.
func WithCache(c *cache.Cache[*triples.Result]) Option {
	return func(s *Service) { s.results = c }
}

// WithArchive archives every conversion to sink.
func WithArchive(sink archive.Sink) Option {
	return func(s *Service) { s.archive = sink }
}

// WithRecorder records every conversion.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithEvents publishes an event per conversion.
func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithRules replaces the recommendation rule registry.
func WithRules(rules ...recommendation.Rule) Option {
	return func(s *Service) { s.generator = recommendation.NewGenerator(s.vocab, rules...) }
}

// New creates a service over v. Without options it only validates,
// converts and counts into a private metrics registry.
func New(v *vocabulary.Vocabulary, opts ...Option) *Service {
	if v == nil {
		v = vocabulary.Default()
	}
	s := &Service{
		vocab:     v,
		generator: recommendation.NewGenerator(v),
		logger:    logging.NewNopLogger(),
		events:    events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	s.logger = s.logger.With(logging.Component("convert"))
	return s
}

// Vocabulary returns the vocabulary in use.
func (s *Service) Vocabulary() *vocabulary.Vocabulary {
	return s.vocab
}

// CacheStats returns the result cache counters, or zero when caching is off.
func (s *Service) CacheStats() cache.Stats {
	if s.results == nil {
		return cache.Stats{}
	}
	return s.results.Stats()
}

// Triples interprets g.
func (s *Service) Triples(ctx context.Context, g *guideline.Graph) (*triples.Result, error) {
	run, err := s.interpret(FormatTriples, g)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(run.res.Triples)
	if err != nil {
		return nil, fmt.Errorf("failed to encode triples: %w", err)
	}
	s.finish(ctx, run, out)
	return run.res, nil
}

// Turtle interprets g and serializes the ontology text.
func (s *Service) Turtle(ctx context.Context, g *guideline.Graph) (string, error) {
	run, err := s.interpret(FormatTurtle, g)
	if err != nil {
		return "", err
	}
	text := ontology.Serialize(g, run.res, s.vocab)
	s.finish(ctx, run, []byte(text))
	return text, nil
}

// Identifiers returns the node id → stable identifier map. A graph with
// no root yields an empty map.
func (s *Service) Identifiers(ctx context.Context, g *guideline.Graph) (map[string]string, error) {
	run, err := s.interpret(FormatIdentifiers, g)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(run.res.IRIs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identifiers: %w", err)
	}
	s.finish(ctx, run, out)
	return run.res.IRIs, nil
}

// XLSX interprets g and writes the rows to a temporary workbook. The
// caller must Close the returned file.
func (s *Service) XLSX(ctx context.Context, g *guideline.Graph) (*export.TempFile, error) {
	run, err := s.interpret(FormatXLSX, g)
	if err != nil {
		return nil, err
	}
	rows := g.Rows(run.res.Triples)
	file, err := export.WriteXLSX(rows, g.Doc.ID)
	if err != nil {
		s.metrics.RecordConversion(FormatXLSX, metrics.StatusError, time.Since(run.start), 0)
		s.logger.Error("Spreadsheet export failed", logging.DocumentID(g.Doc.ID), logging.Error(err))
		return nil, err
	}
	out, err := json.Marshal(rows)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	s.finish(ctx, run, out)
	return file, nil
}

// Recommendation converts structured recommendation documents into rows.
// sel narrows the input to one document or one disease.
func (s *Service) Recommendation(ctx context.Context, data []byte, sel recommendation.Selection) ([]guideline.Row, error) {
	start := s.now()
	docs, err := s.loadRecommendation(FormatRecommendation, data, sel, start)
	if err != nil {
		return nil, err
	}
	rows := s.generator.GenerateAll(docs)
	if rows == nil {
		rows = []guideline.Row{}
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	s.finish(ctx, &run{
		format:  FormatRecommendation,
		docID:   firstDocumentID(docs),
		input:   data,
		start:   start,
		triples: len(rows),
	}, out)
	return rows, nil
}

// RecommendationTurtle renders structured recommendation documents as
// ontology individuals. The triple count recorded for the conversion is
// the number of rows the same documents produce.
func (s *Service) RecommendationTurtle(ctx context.Context, data []byte, sel recommendation.Selection) (string, error) {
	start := s.now()
	docs, err := s.loadRecommendation(FormatRecommendationTurtle, data, sel, start)
	if err != nil {
		return "", err
	}
	text := ontology.SerializeRecommendation(docs)
	s.finish(ctx, &run{
		format:  FormatRecommendationTurtle,
		docID:   firstDocumentID(docs),
		input:   data,
		start:   start,
		triples: len(s.generator.GenerateAll(docs)),
	}, []byte(text))
	return text, nil
}

func (s *Service) loadRecommendation(format string, data []byte, sel recommendation.Selection, start time.Time) ([]recommendation.Document, error) {
	docs, err := recommendation.Load(data, sel)
	if err != nil {
		s.metrics.RecordConversion(format, metrics.StatusInvalid, time.Since(start), 0)
		s.logger.Warn("Rejected recommendation document", logging.Format(format), logging.Error(err))
		return nil, err
	}
	return docs, nil
}

func firstDocumentID(docs []recommendation.Document) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].ID
}

// run carries one conversion through interpret and finish.
type run struct {
	format   string
	docID    string
	input    []byte
	res      *triples.Result
	start    time.Time
	cached   bool
	triples  int
	degraded bool
}

// interpret validates g and returns the cached or freshly computed result.
func (s *Service) interpret(format string, g *guideline.Graph) (*run, error) {
	r := &run{format: format, docID: g.Doc.ID, start: s.now()}

	if err := validation.ValidateGraph(g); err != nil {
		s.metrics.RecordConversion(format, metrics.StatusInvalid, time.Since(r.start), 0)
		s.logger.Warn("Rejected graph", logging.DocumentID(r.docID), logging.Format(format), logging.Error(err))
		return nil, err
	}

	input, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	r.input = input

	key := cache.KeyFor("graph", input)
	if s.results != nil {
		if res, ok := s.results.Get(key); ok {
			s.metrics.RecordCache(true)
			r.res, r.cached = res, true
			r.triples, r.degraded = len(res.Triples), res.Degraded
			return r, nil
		}
		s.metrics.RecordCache(false)
	}

	res, err := triples.Generate(g, s.vocab)
	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, logic.ErrCyclicStructure) {
			status = metrics.StatusCyclic
		}
		s.metrics.RecordConversion(format, status, time.Since(r.start), 0)
		s.logger.Warn("Conversion failed",
			logging.DocumentID(r.docID),
			logging.Format(format),
			logging.Error(err),
		)
		return nil, err
	}

	if s.results != nil {
		s.results.Add(key, res)
	}
	r.res = res
	r.triples, r.degraded = len(res.Triples), res.Degraded
	return r, nil
}

// finish records metrics and logs, then hands the conversion to the
// configured sinks. Sink failures are logged and counted but never fail
// the conversion.
func (s *Service) finish(ctx context.Context, r *run, output []byte) {
	elapsed := time.Since(r.start)
	status := metrics.StatusOK
	if r.degraded {
		status = metrics.StatusDegraded
	}
	s.metrics.RecordConversion(r.format, status, elapsed, r.triples)
	s.logger.Info("Conversion complete",
		logging.DocumentID(r.docID),
		logging.Format(r.format),
		logging.Count(r.triples),
		logging.Bool("degraded", r.degraded),
		logging.Bool("cached", r.cached),
		logging.Latency(elapsed),
	)

	id := uuid.New()
	created := s.now().UTC()

	var archiveKey string
	if s.archive != nil {
		key, err := s.archive.Put(ctx, archive.Record{
			ID:         id.String(),
			Format:     r.format,
			DocumentID: r.docID,
			CreatedAt:  created,
			Input:      json.RawMessage(r.input),
			Output:     output,
		})
		if err != nil {
			s.sinkFailed("archive", r, err)
		} else {
			archiveKey = key
		}
	}

	if s.recorder != nil {
		err := s.recorder.Insert(ctx, &store.Conversion{
			ID:          id,
			DocumentID:  r.docID,
			Format:      r.format,
			Status:      status,
			TripleCount: r.triples,
			Degraded:    r.degraded,
			Input:       json.RawMessage(r.input),
			ArchiveKey:  archiveKey,
			CreatedAt:   created,
		})
		if err != nil {
			s.sinkFailed("store", r, err)
		}
	}

	err := s.events.Publish(ctx, events.Event{
		ID:         id.String(),
		Format:     r.format,
		DocumentID: r.docID,
		Status:     status,
		Triples:    r.triples,
		Degraded:   r.degraded,
		DurationMS: elapsed.Milliseconds(),
		Time:       created,
	})
	if err != nil {
		s.sinkFailed("events", r, err)
	}
}

func (s *Service) sinkFailed(sink string, r *run, err error) {
	s.metrics.RecordSinkFailure(sink)
	s.logger.Error("Sink delivery failed",
		logging.String("sink", sink),
		logging.DocumentID(r.docID),
		logging.Format(r.format),
		logging.Error(err),
	)
}
