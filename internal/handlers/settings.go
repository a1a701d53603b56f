package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vocabdeck/vocabdeck/internal/llm"
)

// HandleLLMSettings reads (GET) or saves (PUT) the definition API
// settings. Saving validates the URL against the known providers
// before anything is persisted.
func (h *Handler) HandleLLMSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		settings := h.llmService.Settings()
		h.writeJSON(w, map[string]any{
			"apiUrl":     settings.APIURL,
			"configured": h.llmService.Configured(),
		})
	case "PUT", "POST":
		var settings llm.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		err := h.llmService.SaveSettings(settings)
		if errors.Is(err, llm.ErrNotConfigured) || errors.Is(err, llm.ErrUnsupportedProvider) {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			h.writeError(w, "Failed to save settings: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]string{"message": "Settings saved"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
