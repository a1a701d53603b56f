package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/anki"
	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/vocab"
)

// HandleDecks lists the extension decks and the Kindle books.
func (h *Handler) HandleDecks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		extensionDecks, kindleBooks := h.vocabStore.Decks()
		h.writeJSON(w, map[string]any{
			"extensionDecks": extensionDecks,
			"kindleBooks":    kindleBooks,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleDeckDetail dispatches /api/decks/{id}[/items|/enrich|/export].
// The id is either a language code (extension deck) or a book id.
func (h *Handler) HandleDeckDetail(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/decks/")
	id, action, _ := strings.Cut(path, "/")
	if id == "" {
		h.writeError(w, "Missing deck id", http.StatusBadRequest)
		return
	}

	switch action {
	case "":
		h.handleDeck(w, r, id)
	case "items":
		h.handleDeckItems(w, r, id)
	case "enrich":
		h.handleDeckEnrich(w, r, id)
	case "export":
		h.handleDeckExport(w, r, id)
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) handleDeck(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	deck, err := h.getDeckOrError(w, id)
	if err != nil {
		return
	}
	h.writeJSON(w, deck)
}

// handleDeckItems updates (POST) or tombstones (DELETE) one item,
// identified by its selection and context.
func (h *Handler) handleDeckItems(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case "POST":
		var request struct {
			Item   models.VocabItem `json:"item"`
			Fields models.ItemPatch `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.vocabStore.UpdateItem(id, request.Item, request.Fields); err != nil {
			h.writeError(w, "Failed to update item: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]string{"message": "Item updated"})
	case "DELETE":
		var item models.VocabItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.vocabStore.RemoveItem(id, item); err != nil {
			h.writeError(w, "Failed to remove item: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]string{"message": "Item removed"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDeckExport streams the deck as flashcard TSV.
func (h *Handler) handleDeckExport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(anki.FormatBasic)
	}
	format, err := anki.ParseFormat(name)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	deck, err := h.getDeckOrError(w, id)
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.tsv"`)
	if _, err := w.Write([]byte(anki.ExportCSV(deck.Words, format))); err != nil {
		h.writeError(w, "Failed to write export: "+err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) getDeckOrError(w http.ResponseWriter, id string) (models.Deck, error) {
	deck, err := h.vocabStore.Deck(id)
	if errors.Is(err, vocab.ErrBookNotFound) {
		h.writeError(w, "Deck not found: "+id, http.StatusNotFound)
		return models.Deck{}, err
	}
	if err != nil {
		h.writeError(w, "Failed to load deck: "+err.Error(), http.StatusInternalServerError)
		return models.Deck{}, err
	}
	return deck, nil
}
