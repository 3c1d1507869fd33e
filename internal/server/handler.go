// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raphaelgruber/docchat/internal/chatbot"
	"github.com/raphaelgruber/docchat/internal/models"
)

// Answerer runs one question through the orchestration pipeline.
type Answerer interface {
	Answer(ctx context.Context, sessionID, question string) ([]models.Message, error)
}

// Handler validates inbound requests and serializes pipeline results. It is
// the only layer that converts errors into client-visible responses.
type Handler struct {
	pipeline Answerer
	logger   *slog.Logger
}

// NewHandler creates the HTTP handler for the ask endpoints.
func NewHandler(pipeline Answerer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{pipeline: pipeline, logger: logger}
}

// Routes returns the service mux with logging applied to every route.
// /api/questions (with any suffix) and /askme are aliases; they differ only
// in the session field name their original clients send.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/questions", h.handleAsk)
	mux.HandleFunc("POST /api/questions/", h.handleAsk)
	mux.HandleFunc("POST /askme", h.handleAsk)
	mux.HandleFunc("GET /health", h.handleHealth)
	return LoggingMiddleware(h.logger)(mux)
}

// askRequest accepts both observed session field spellings.
type askRequest struct {
	SessionID    string `json:"session_id"`
	SessionIDAlt string `json:"sessionID"`
	Question     string `json:"question"`
}

func (r askRequest) session() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDAlt
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := req.session()
	if sessionID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	history, err := h.pipeline.Answer(r.Context(), sessionID, req.Question)
	if err != nil {
		if errors.Is(err, chatbot.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("pipeline failed", "session", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, history)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
