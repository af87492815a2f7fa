package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-guidelines/pkg/logging"
)

// GraphQLRequest represents a GraphQL HTTP request
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

// Handler serves GraphQL over HTTP POST. CORS and body limits are applied
// by the surrounding middleware.
type Handler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewHandler creates a handler for schema.
func NewHandler(schema graphql.Schema, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		schema:   schema,
		maxDepth: DefaultMaxDepth,
		logger:   logger.With(logging.Component("graphql")),
	}
}

// SetMaxDepth changes the depth limit.
func (h *Handler) SetMaxDepth(depth int) {
	h.maxDepth = depth
}

// ServeHTTP handles HTTP requests for GraphQL queries
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeErrors(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeErrors(w, http.StatusBadRequest, "query is required")
		return
	}

	if err := ValidateQueryDepth(req.Query, h.maxDepth); err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	response := GraphQLResponse{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]GraphQLError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = GraphQLError{Message: err.Message}
		}
		h.logger.Debug("GraphQL query returned errors", logging.Count(len(result.Errors)))
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(GraphQLResponse{Errors: []GraphQLError{{Message: msg}}})
}
