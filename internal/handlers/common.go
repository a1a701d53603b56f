// Package handlers exposes the vocabulary pipeline over a JSON HTTP
// API consumed by the browser UI.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vocabdeck/vocabdeck/internal/llm"
	"github.com/vocabdeck/vocabdeck/internal/vocab"
)

type Handler struct {
	vocabStore *vocab.Store
	llmService *llm.Service
}

func New(store *vocab.Store, service *llm.Service) *Handler {
	return &Handler{
		vocabStore: store,
		llmService: service,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
