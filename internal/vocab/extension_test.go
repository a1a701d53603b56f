package vocab

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/storage"
)

func newTestKV(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.Open(filepath.Join(t.TempDir(), "vocabdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestAddUniqueWordsDedup(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	words := []models.VocabItem{
		{Selection: "Haus", Context: "Das Haus ist groß", Language: "de"},
		{Selection: "Birne", Context: "Die Birne ist reif", Language: "de"},
	}
	require.NoError(t, s.AddUniqueWords(words))
	require.Len(t, s.Words(), 2)

	// The same (selection, context) pairs again change nothing.
	require.NoError(t, s.AddUniqueWords(words))
	assert.Len(t, s.Words(), 2)

	// Same selection in a new context is a distinct entry.
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{
		{Selection: "Haus", Context: "Ein anderes Haus", Language: "de"},
	}))
	assert.Len(t, s.Words(), 3)
}

func TestSoftDelete(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	word := models.VocabItem{Selection: "Haus", Context: "Das Haus ist groß", Language: "de"}
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{word}))

	removed := true
	require.NoError(t, s.UpdateItem(word, models.ItemPatch{Removed: &removed}))

	// Gone from the deck, still present in raw storage.
	assert.Empty(t, s.Deck("de").Words)
	require.Len(t, s.Words(), 1)
	assert.True(t, s.Words()[0].Removed)

	// Re-pushing the same word must not resurrect it.
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{word}))
	assert.Empty(t, s.Deck("de").Words)
	assert.Len(t, s.Words(), 1)
}

func TestUpdateItemMergesOnlyNamedFields(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	word := models.VocabItem{
		Selection: "Häuser",
		BaseForm:  "Haus",
		Context:   "Die Häuser sind alt",
		Language:  "de",
	}
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{word}))

	def := "house"
	require.NoError(t, s.UpdateItem(word, models.ItemPatch{Def: &def}))

	got := s.Words()[0]
	assert.Equal(t, "house", got.Def)
	assert.Equal(t, "Haus", got.BaseForm, "unpatched fields must survive")
	assert.Equal(t, "de", got.Language)
	assert.False(t, got.Removed)
}

func TestUpdateItemUnknownWordIsNoOp(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))
	def := "house"
	require.NoError(t, s.UpdateItem(
		models.VocabItem{Selection: "Haus", Context: "nie gesehen"},
		models.ItemPatch{Def: &def},
	))
	assert.Empty(t, s.Words())
}

func TestDecksPartitionByLanguage(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	require.NoError(t, s.AddUniqueWords([]models.VocabItem{
		{Selection: "Haus", Context: "c1", Language: "de"},
		{Selection: "maison", Context: "c2", Language: "fr"},
		{Selection: "Birne", Context: "c3", Language: "de"},
	}))

	decks := s.Decks()
	require.Len(t, decks, 2)
	assert.Equal(t, "de", decks[0].Lang)
	assert.Equal(t, "German", decks[0].Language)
	assert.Len(t, decks[0].Words, 2)
	assert.Equal(t, "fr", decks[1].Lang)
	assert.Len(t, decks[1].Words, 1)
}

func TestExtensionWordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabdeck.db")

	kv, err := storage.Open(path)
	require.NoError(t, err)
	s := NewExtensionStore(kv)
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{
		{Selection: "Haus", Context: "Das Haus ist groß", Language: "de"},
	}))
	require.NoError(t, kv.Close())

	kv, err = storage.Open(path)
	require.NoError(t, err)
	defer kv.Close()

	reopened := NewExtensionStore(kv)
	require.Len(t, reopened.Words(), 1)
	assert.Equal(t, "Haus", reopened.Words()[0].Selection)
}

func TestPollMergesLateSource(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	var polls atomic.Int32
	src := func() ([]models.VocabItem, bool) {
		// The producer attaches on the third poll.
		if polls.Add(1) < 3 {
			return nil, false
		}
		return []models.VocabItem{
			{Selection: "Haus", Context: "c", Language: "de"},
		}, true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Poll(context.Background(), src)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not finish")
	}
	assert.Len(t, s.Words(), 1)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestPollStopsOnCancel(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Poll(ctx, func() ([]models.VocabItem, bool) { return nil, false })
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Poll ignored cancellation")
	}
	assert.Empty(t, s.Words())
}

func TestOnAddFiresOnlyWhenWordsMerged(t *testing.T) {
	s := NewExtensionStore(newTestKV(t))

	var fired atomic.Int32
	s.OnAdd(func() { fired.Add(1) })

	word := models.VocabItem{Selection: "Haus", Context: "c", Language: "de"}
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{word}))
	assert.Equal(t, int32(1), fired.Load())

	// A pure duplicate merge must not notify.
	require.NoError(t, s.AddUniqueWords([]models.VocabItem{word}))
	assert.Equal(t, int32(1), fired.Load())
}
