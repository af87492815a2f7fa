// Package api exposes the conversion service over HTTP.
package api

import (
	"net/http"

	"github.com/dd0wney/cluso-guidelines/pkg/api/middleware"
	"github.com/dd0wney/cluso-guidelines/pkg/auth"
	"github.com/dd0wney/cluso-guidelines/pkg/config"
	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/graphql"
	"github.com/dd0wney/cluso-guidelines/pkg/health"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/metrics"
)

// RootMessage is returned by GET /.
const RootMessage = "unified converter API is running"

// Server represents the HTTP API server
type Server struct {
	service         *convert.Service
	healthChecker   *health.HealthChecker
	metricsRegistry *metrics.Registry
	jwtManager      *auth.JWTManager // nil when authentication is disabled
	graphqlHandler  http.Handler
	corsConfig      *middleware.CORSConfig
	maxBodyBytes    int64
	logger          logging.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the registry served on /metrics and fed by the
// request middleware.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) { s.metricsRegistry = r }
}

// WithHealth sets the checker served on /health and /ready.
func WithHealth(hc *health.HealthChecker) Option {
	return func(s *Server) { s.healthChecker = hc }
}

// WithAuth requires a bearer token on the conversion endpoints.
func WithAuth(m *auth.JWTManager) Option {
	return func(s *Server) { s.jwtManager = m }
}

// NewServer creates a server for svc. The GraphQL schema is built over the
// same service.
func NewServer(cfg config.ServerConfig, svc *convert.Service, opts ...Option) (*Server, error) {
	s := &Server{
		service:      svc,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = metrics.NewRegistry()
	}
	if s.healthChecker == nil {
		s.healthChecker = health.NewHealthChecker()
		s.healthChecker.RegisterCheck("service", health.SimpleCheck("service"))
	}

	s.corsConfig = middleware.DefaultCORSConfig()
	s.corsConfig.AllowedOrigins = cfg.CORSOrigins

	schema, err := graphql.NewSchema(svc)
	if err != nil {
		return nil, err
	}
	s.graphqlHandler = graphql.NewHandler(schema, s.logger)

	return s, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("GET /ready", s.healthChecker.ReadinessHandler())
	mux.Handle("GET /metrics", s.metricsRegistry.Handler())

	mux.HandleFunc("POST /api/graph/to-triples", s.requireAuth(s.handleTriples))
	mux.HandleFunc("POST /api/graph/to-ttl", s.requireAuth(s.handleTurtle))
	mux.HandleFunc("POST /api/graph/to-triples-xlsx", s.requireAuth(s.handleXLSX))
	mux.HandleFunc("POST /api/graph/identifiers", s.requireAuth(s.handleIdentifiers))
	mux.HandleFunc("POST /api/recommendation/to-triples", s.requireAuth(s.handleRecommendation))
	mux.HandleFunc("POST /api/recommendation/to-ttl", s.requireAuth(s.handleRecommendationTurtle))
	mux.Handle("POST /graphql", s.requireAuth(s.graphqlHandler.ServeHTTP))

	var handler http.Handler = mux
	if s.maxBodyBytes > 0 {
		handler = middleware.BodySizeLimit(s.maxBodyBytes)(handler)
	}
	handler = middleware.Metrics(s.metricsRegistry)(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.CORS(s.corsConfig)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}
