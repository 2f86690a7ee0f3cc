// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/assay/internal/adapters/llm"
)

// SentimentHandler handles sentiment analysis requests.
type SentimentHandler struct {
	deps Dependencies
}

// NewSentimentHandler creates a new sentiment handler.
func NewSentimentHandler(deps Dependencies) *SentimentHandler {
	return &SentimentHandler{deps: deps}
}

// sentimentRequest mirrors the POST /sentiment body.
type sentimentRequest struct {
	Text string `json:"text"`
}

// HandleSentiment handles POST /sentiment requests.
func (h *SentimentHandler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sentiment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.AnalyzeSentiment(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, llm.ErrGeneration) {
			writeError(w, http.StatusBadGateway, "generation_"+llm.Category(err), err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: result})
}
