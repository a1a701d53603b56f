package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/kindle"
)

// maxUploadSize bounds an uploaded vocab.db. Real devices produce files
// in the tens of megabytes.
const maxUploadSize = 256 * 1024 * 1024

// HandleImport ingests a dropped vocab.db file: parse the books, pull
// every book's lookups, and replace the stored collection wholesale.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	reader, err := kindle.Open(data)
	if err != nil {
		h.writeError(w, "Failed to open database: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer reader.Close()

	books, err := reader.Books()
	if errors.Is(err, kindle.ErrNotVocabDB) {
		h.writeError(w, "Not a valid vocabulary database, try a different file", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to read books: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The uploaded blob is gone once this request ends, so entries are
	// resolved here rather than on first deck open.
	for i := range books {
		vocabs, err := reader.Vocabs(books[i].ID)
		if err != nil {
			h.writeError(w, "Failed to read lookups: "+err.Error(), http.StatusInternalServerError)
			return
		}
		books[i].Vocabs = vocabs
	}

	if err := h.vocabStore.Kindle().SetBooks(books); err != nil {
		h.writeError(w, "Failed to save books: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Imported vocabulary database", "books", len(books))
	h.writeJSON(w, map[string]any{
		"message": "Successfully imported vocabulary database",
		"books":   books,
	})
}

// readUpload accepts either a multipart form upload or a raw body.
func (h *Handler) readUpload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("files")
		if err != nil {
			file, _, err = r.FormFile("file")
			if err != nil {
				return nil, err
			}
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxUploadSize))
	}
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
}
