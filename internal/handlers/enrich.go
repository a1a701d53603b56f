package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vocabdeck/vocabdeck/internal/languages"
	"github.com/vocabdeck/vocabdeck/internal/llm"
	"github.com/vocabdeck/vocabdeck/internal/models"
)

// handleDeckEnrich runs the definition engine over a deck's undefined
// items and writes every definition that came back through the store.
// Items whose batch failed stay undefined; the successful portion is
// saved regardless.
func (h *Handler) handleDeckEnrich(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deck, err := h.getDeckOrError(w, id)
	if err != nil {
		return
	}

	items := make([]*models.VocabItem, len(deck.Words))
	wasUndefined := make([]bool, len(deck.Words))
	for i := range deck.Words {
		items[i] = &deck.Words[i]
		wasUndefined[i] = !deck.Words[i].Defined()
	}

	opts := llm.PromptOptions{SourceLang: languages.Name(deck.Lang)}
	err = h.llmService.FetchDefinitions(r.Context(), items, opts)
	if errors.Is(err, llm.ErrNotConfigured) {
		h.writeError(w, "LLM API not configured. Please set API key and URL.", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, "Enrichment failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	enriched := 0
	for i, item := range items {
		if !wasUndefined[i] || item.Def == "" {
			continue
		}
		patch := models.ItemPatch{Def: &item.Def}
		if err := h.vocabStore.UpdateItem(id, *item, patch); err != nil {
			slog.Error("Failed to save definition", "selection", item.Selection, "err", err)
			continue
		}
		enriched++
	}

	slog.Info("Deck enriched", "deck", id, "defined", enriched, "total", len(items))
	h.writeJSON(w, map[string]any{
		"message":  "Enrichment complete",
		"enriched": enriched,
		"total":    len(items),
	})
}
