// Package vocab holds the two vocabulary stores (Kindle books and
// extension words) and the unified facade that routes deck ids between
// them.
package vocab

import (
	"sync"

	"github.com/vocabdeck/vocabdeck/internal/languages"
	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/storage"
)

// Store is the unified facade over the Kindle and extension stores. An
// id that is a known language code addresses the extension vocabulary;
// any other id is treated as a book id. Every mutation fires the
// registered change callbacks so presentation layers can subscribe once.
type Store struct {
	kindle *KindleStore
	ext    *ExtensionStore

	mu   sync.Mutex
	subs []func()
}

// NewStore builds the facade and both underlying stores on top of the
// durable key-value store.
func NewStore(kv *storage.Store) *Store {
	s := &Store{
		kindle: NewKindleStore(kv),
		ext:    NewExtensionStore(kv),
	}
	s.ext.OnAdd(s.notify)
	return s
}

// Kindle exposes the book store for import flows.
func (s *Store) Kindle() *KindleStore { return s.kindle }

// Extension exposes the extension store for push/poll ingestion.
func (s *Store) Extension() *ExtensionStore { return s.ext }

// Subscribe registers a callback fired after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Decks returns the extension decks and the Kindle books.
func (s *Store) Decks() ([]models.Deck, []models.Book) {
	return s.ext.Decks(), s.kindle.Books()
}

// Deck resolves id to either a per-language extension deck or a book
// deck. Returns ErrBookNotFound for an id that is neither a language
// code nor a known book.
func (s *Store) Deck(id string) (models.Deck, error) {
	if languages.IsCode(id) {
		return s.ext.Deck(id), nil
	}
	return s.kindle.Deck(id)
}

// UpdateItem merges the patch into the item owned by whichever store id
// addresses, then notifies subscribers.
func (s *Store) UpdateItem(id string, item models.VocabItem, patch models.ItemPatch) error {
	var err error
	if languages.IsCode(id) {
		err = s.ext.UpdateItem(item, patch)
	} else {
		err = s.kindle.UpdateItem(id, item, patch)
	}
	s.notify()
	return err
}

// RemoveItem tombstones the item: it disappears from decks and exports
// but stays in storage so re-ingesting the same data can't bring it
// back as a duplicate.
func (s *Store) RemoveItem(id string, item models.VocabItem) error {
	removed := true
	return s.UpdateItem(id, item, models.ItemPatch{Removed: &removed})
}
