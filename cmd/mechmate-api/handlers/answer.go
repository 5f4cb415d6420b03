// Package handlers provides HTTP handlers for the mechmate API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Jeyavarman-2005/mechmate/internal/engine"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
)

// AnswerHandler handles question answering requests.
type AnswerHandler struct {
	logger   *observability.Logger
	answerer *engine.Answerer
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(logger *observability.Logger, answerer *engine.Answerer) *AnswerHandler {
	return &AnswerHandler{logger: logger, answerer: answerer}
}

// AnswerRequestDTO is the API request for one question.
type AnswerRequestDTO struct {
	Question string `json:"question"`
}

// AnswerResponseDTO is the API response for one question.
type AnswerResponseDTO struct {
	engine.Answer
	LatencyMs int64 `json:"latency_ms"`
}

// ErrorDTO is the API error body.
type ErrorDTO struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Answer handles POST /v1/answer.
func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}

	start := time.Now()
	ans, err := h.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		var upstream *engine.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Error().Err(err).Str("source", upstream.Source).Msg("Answer failed upstream")
			writeError(w, http.StatusBadGateway, "upstream failure", upstream.Source)
			return
		}
		h.logger.Error().Err(err).Msg("Answer failed")
		writeError(w, http.StatusInternalServerError, "answer failed", "")
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponseDTO{
		Answer:    ans,
		LatencyMs: time.Since(start).Milliseconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, ErrorDTO{Error: message, Detail: detail})
}
