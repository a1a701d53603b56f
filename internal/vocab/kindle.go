package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vocabdeck/vocabdeck/internal/languages"
	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/storage"
)

// ErrBookNotFound is returned when a deck is requested for an unknown
// book id.
var ErrBookNotFound = errors.New("book not found")

// KindleStore owns the collection of books imported from a vocabulary
// database. The whole collection is persisted on every mutation;
// importing a new file replaces it wholesale.
type KindleStore struct {
	store *storage.Store
	mu    sync.RWMutex
	books []models.Book
}

// NewKindleStore creates the store and loads any previously persisted
// book collection.
func NewKindleStore(store *storage.Store) *KindleStore {
	s := &KindleStore{store: store}

	raw, ok, err := store.Get(storage.KeyKindleBooks)
	if err != nil {
		slog.Error("Failed to load saved books", "err", err)
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.books); err != nil {
			slog.Error("Discarding unreadable saved books", "err", err)
		}
	}
	return s
}

// SetBooks replaces the whole collection and persists it.
func (s *KindleStore) SetBooks(books []models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = books
	return s.persistLocked()
}

// Books returns the current collection, unfiltered.
func (s *KindleStore) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Deck returns the presentation view for a book: removed entries are
// filtered out and book metadata is attached.
func (s *KindleStore) Deck(id string) (models.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book := s.findLocked(id)
	if book == nil {
		return models.Deck{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}

	words := make([]models.VocabItem, 0, len(book.Vocabs))
	for _, item := range book.Vocabs {
		if item.Removed {
			continue
		}
		item.Language = book.Language
		words = append(words, item)
	}

	return models.Deck{
		Lang:     book.Language,
		Language: languages.Name(book.Language),
		Title:    book.Title,
		Authors:  book.Authors,
		Cover:    book.Cover,
		Words:    words,
	}, nil
}

// SetVocabs attaches resolved vocabulary entries to a book and persists.
// Unknown ids are ignored.
func (s *KindleStore) SetVocabs(id string, vocabs []models.VocabItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(id)
	if book == nil {
		return nil
	}
	book.Vocabs = vocabs
	return s.persistLocked()
}

// UpdateItem merges the patch into the entry of the given book matching
// item's (selection, context) key. A missing book or entry is a silent
// no-op.
func (s *KindleStore) UpdateItem(bookID string, item models.VocabItem, patch models.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return nil
	}
	for i := range book.Vocabs {
		if book.Vocabs[i].SameEntry(item) {
			patch.Apply(&book.Vocabs[i])
			return s.persistLocked()
		}
	}
	return nil
}

func (s *KindleStore) findLocked(id string) *models.Book {
	for i := range s.books {
		if s.books[i].ID == id {
			return &s.books[i]
		}
	}
	return nil
}

func (s *KindleStore) persistLocked() error {
	raw, err := json.Marshal(s.books)
	if err != nil {
		return fmt.Errorf("marshal books: %w", err)
	}
	return s.store.Set(storage.KeyKindleBooks, string(raw))
}
