// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/assay/internal/adapters/storage"
	"github.com/okian/assay/internal/domain/model"
	"github.com/okian/assay/internal/domain/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dataset lifecycle.
	UploadDataset(ctx context.Context, name string, data []byte) (int, error)

	// Read operations expose the query engine's views.
	Entities(ctx context.Context, dataset string) ([]string, error)
	Groups(ctx context.Context, dataset string) ([]string, error)
	Records(ctx context.Context, dataset string, scope query.Scope) ([]model.Record, error)
	Progress(ctx context.Context, dataset string, scope query.Scope) ([]query.ProgressPoint, error)
	CapabilityScores(ctx context.Context, dataset string, scope query.Scope) ([]query.CapabilityScore, error)
	CriteriaDistribution(ctx context.Context, dataset string, scope query.Scope) (map[string]int, error)
	Notes(ctx context.Context, dataset string, scope query.Scope) ([]string, error)
	AssessmentDates(ctx context.Context, dataset string, scope query.Scope) ([]string, error)
	TemplateNames(ctx context.Context, dataset string, scope query.Scope) ([]string, error)

	// Narrative operations.
	ReportPrompt(ctx context.Context, dataset string, scope query.Scope) (string, error)
	Summarize(ctx context.Context, dataset string, scope query.Scope) (string, error)
	AnalyzeSentiment(ctx context.Context, text string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	datasetsHandler  *DatasetsHandler
	sentimentHandler *SentimentHandler
	healthHandler    *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxUploadBytes int64) *Server {
	return &Server{
		datasetsHandler:  NewDatasetsHandler(deps, maxUploadBytes),
		sentimentHandler: NewSentimentHandler(deps),
		healthHandler:    NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/datasets/", RequestIDMiddleware(MetricsMiddleware(s.datasetsHandler.HandleDatasets, "datasets")))
	mux.HandleFunc("/sentiment", RequestIDMiddleware(MetricsMiddleware(s.sentimentHandler.HandleSentiment, "sentiment")))
}

// scopeRequest carries the scope selection shared by all view endpoints.
type scopeRequest struct {
	Scope string `json:"scope"` // "entity" or "group"
	Name  string `json:"name"`
}

func (r scopeRequest) toScope() (query.Scope, error) {
	switch r.Scope {
	case "entity":
		return query.Scope{Kind: query.Entity, Name: r.Name}, nil
	case "group":
		return query.Scope{Kind: query.Group, Name: r.Name}, nil
	default:
		return query.Scope{}, errors.New(`scope must be "entity" or "group"`)
	}
}

// parseScope reads the scope selection from query parameters.
func parseScope(r *http.Request) (query.Scope, error) {
	req := scopeRequest{
		Scope: r.URL.Query().Get("scope"),
		Name:  r.URL.Query().Get("name"),
	}
	if req.Name == "" {
		return query.Scope{}, errors.New("missing name parameter")
	}
	return req.toScope()
}

type uploadResponse struct {
	Dataset string `json:"dataset"`
	Records int    `json:"records"`
}

type textResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
