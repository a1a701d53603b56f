package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vocabdeck/vocabdeck/internal/languages"
	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/storage"
)

// Polling cadence for a word source that may attach late.
const (
	pollInterval    = 50 * time.Millisecond
	pollMaxAttempts = 100
)

// WordSource supplies a batch of externally-pushed words. ok is false
// while the producer has not attached yet.
type WordSource func() (words []models.VocabItem, ok bool)

// ExtensionStore owns the flat, deduplicated list of words pushed in by
// the companion browser extension. Language partitioning is derived on
// read; the stored structure is one list across all languages.
type ExtensionStore struct {
	store *storage.Store
	mu    sync.RWMutex
	words []models.VocabItem
	onAdd func()
}

// NewExtensionStore creates the store and loads any previously
// persisted words.
func NewExtensionStore(store *storage.Store) *ExtensionStore {
	s := &ExtensionStore{store: store}

	raw, ok, err := store.Get(storage.KeyExtensionWords)
	if err != nil {
		slog.Error("Failed to load saved extension words", "err", err)
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.words); err != nil {
			slog.Error("Discarding unreadable saved extension words", "err", err)
		}
	}
	return s
}

// OnAdd registers a callback fired whenever new words are merged in.
func (s *ExtensionStore) OnAdd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdd = fn
}

// Poll watches src until it yields a batch, then merges it and stops.
// The producer may attach late or never: after pollMaxAttempts the poll
// gives up with a log line, never an error. Cancel via ctx.
func (s *ExtensionStore) Poll(ctx context.Context, src WordSource) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= pollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			words, ok := src()
			if !ok {
				continue
			}
			if err := s.AddUniqueWords(words); err != nil {
				slog.Error("Failed to merge extension words", "err", err)
			}
			return
		}
	}
	slog.Warn("No extension data", "attempts", pollMaxAttempts)
}

// AddUniqueWords appends the words whose (selection, context) key is
// not already present. When anything was appended the merged list is
// persisted and the add callback fires.
func (s *ExtensionStore) AddUniqueWords(words []models.VocabItem) error {
	s.mu.Lock()

	added := 0
	for _, word := range words {
		if s.containsLocked(word) {
			continue
		}
		s.words = append(s.words, word)
		added++
	}

	if added == 0 {
		s.mu.Unlock()
		return nil
	}

	err := s.persistLocked()
	onAdd := s.onAdd
	s.mu.Unlock()

	if err != nil {
		return err
	}
	slog.Info("Merged extension words", "added", added)
	if onAdd != nil {
		onAdd()
	}
	return nil
}

// Deck collects the live words of one language.
func (s *ExtensionStore) Deck(lang string) models.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]models.VocabItem, 0)
	for _, item := range s.words {
		if !item.Removed && item.Language == lang {
			words = append(words, item)
		}
	}
	return models.Deck{
		Lang:     lang,
		Language: languages.Name(lang),
		Words:    words,
	}
}

// Decks returns one deck per distinct language among live words, in
// first-seen order.
func (s *ExtensionStore) Decks() []models.Deck {
	s.mu.RLock()
	var langs []string
	seen := map[string]bool{}
	for _, item := range s.words {
		if item.Removed || seen[item.Language] {
			continue
		}
		seen[item.Language] = true
		langs = append(langs, item.Language)
	}
	s.mu.RUnlock()

	decks := make([]models.Deck, 0, len(langs))
	for _, lang := range langs {
		decks = append(decks, s.Deck(lang))
	}
	return decks
}

// Words returns the raw list, tombstones included.
func (s *ExtensionStore) Words() []models.VocabItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.VocabItem, len(s.words))
	copy(out, s.words)
	return out
}

// UpdateItem merges the patch into the stored word matching item's
// (selection, context) key. A missing word is a silent no-op.
func (s *ExtensionStore) UpdateItem(item models.VocabItem, patch models.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.words {
		if s.words[i].SameEntry(item) {
			patch.Apply(&s.words[i])
			return s.persistLocked()
		}
	}
	return nil
}

func (s *ExtensionStore) containsLocked(word models.VocabItem) bool {
	for i := range s.words {
		if s.words[i].SameEntry(word) {
			return true
		}
	}
	return false
}

func (s *ExtensionStore) persistLocked() error {
	raw, err := json.Marshal(s.words)
	if err != nil {
		return fmt.Errorf("marshal extension words: %w", err)
	}
	return s.store.Set(storage.KeyExtensionWords, string(raw))
}
