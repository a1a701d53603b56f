package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// HandleWords is the injection point for the companion browser
// extension: it POSTs a batch of words, and only the ones not already
// present (by selection and context) are kept.
func (h *Handler) HandleWords(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var words []models.VocabItem
	if err := json.NewDecoder(r.Body).Decode(&words); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	before := len(h.vocabStore.Extension().Words())
	if err := h.vocabStore.Extension().AddUniqueWords(words); err != nil {
		h.writeError(w, "Failed to save words: "+err.Error(), http.StatusInternalServerError)
		return
	}
	added := len(h.vocabStore.Extension().Words()) - before

	h.writeJSON(w, map[string]any{
		"message": "Words received",
		"added":   added,
	})
}
