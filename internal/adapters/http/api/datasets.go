// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/assay/internal/adapters/llm"
	"github.com/okian/assay/internal/domain/query"
	"github.com/okian/assay/internal/domain/report"
	"github.com/okian/assay/internal/domain/schema"
)

// DatasetsHandler handles dataset upload and view requests.
type DatasetsHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps Dependencies, maxUploadBytes int64) *DatasetsHandler {
	return &DatasetsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandleDatasets routes requests under /datasets/.
//
//	POST /datasets/{name}                          upload CSV body
//	GET  /datasets/{name}/{view}?scope=&name=      query a view
//	POST /datasets/{name}/summary?scope=&name=     generate a narrative
func (h *DatasetsHandler) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	const op = "api.datasets"
	path := strings.TrimPrefix(r.URL.Path, "/datasets/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	dataset, view, _ := strings.Cut(path, "/")
	if dataset == "" || strings.Contains(view, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case view == "" && r.Method == http.MethodPost:
		h.handleUpload(w, r, dataset)
	case view == "summary" && r.Method == http.MethodPost:
		h.handleSummary(w, r, dataset)
	case view != "" && r.Method == http.MethodGet:
		h.handleView(w, r, dataset, view)
	default:
		http.NotFound(w, r)
	}
}

func (h *DatasetsHandler) handleUpload(w http.ResponseWriter, r *http.Request, dataset string) {
	const op = "api.upload_dataset"
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrBadRequest, err))
		return
	}
	count, err := h.deps.UploadDataset(r.Context(), dataset, body)
	if err != nil {
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusUnprocessableEntity, "schema_error", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Dataset: dataset, Records: count})
}

func (h *DatasetsHandler) handleView(w http.ResponseWriter, r *http.Request, dataset, view string) {
	const op = "api.get_view"
	ctx := r.Context()

	// Discovery views take no scope.
	switch view {
	case "entities":
		result, err := h.deps.Entities(ctx, dataset)
		h.respond(w, op, result, err)
		return
	case "groups":
		result, err := h.deps.Groups(ctx, dataset)
		h.respond(w, op, result, err)
		return
	}

	scope, err := parseScope(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	switch view {
	case "records":
		result, err := h.deps.Records(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "progress":
		result, err := h.deps.Progress(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "capability-scores":
		result, err := h.deps.CapabilityScores(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "criteria-distribution":
		result, err := h.deps.CriteriaDistribution(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "notes":
		result, err := h.deps.Notes(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "dates":
		result, err := h.deps.AssessmentDates(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "templates":
		result, err := h.deps.TemplateNames(ctx, dataset, scope)
		h.respond(w, op, result, err)
	case "prompt":
		prompt, err := h.deps.ReportPrompt(ctx, dataset, scope)
		if err != nil {
			h.respondError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, textResponse{Text: prompt})
	default:
		http.NotFound(w, r)
	}
}

func (h *DatasetsHandler) handleSummary(w http.ResponseWriter, r *http.Request, dataset string) {
	const op = "api.post_summary"
	scope, err := parseScope(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	summary, err := h.deps.Summarize(r.Context(), dataset, scope)
	if err != nil {
		h.respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: summary})
}

func (h *DatasetsHandler) respond(w http.ResponseWriter, op string, result any, err error) {
	if err != nil {
		h.respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// respondError maps domain failures onto HTTP statuses: unknown datasets
// and empty scopes are the caller's mistake, collaborator failures are
// upstream conditions, everything else is internal.
func (h *DatasetsHandler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, report.ErrEmptyScope):
		writeError(w, http.StatusNotFound, "empty_scope", err)
	case errors.Is(err, query.ErrInvalidScopeKind):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, llm.ErrGeneration):
		writeError(w, http.StatusBadGateway, "generation_"+llm.Category(err), err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
