package kindle

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixtureDB builds a small vocab.db on disk and returns its bytes.
func writeFixtureDB(t *testing.T) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vocab.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE book_info (id TEXT, asin TEXT, title TEXT, authors TEXT, lang TEXT)`,
		`CREATE TABLE words (id TEXT, word TEXT, stem TEXT, lang TEXT)`,
		`CREATE TABLE lookups (word_key TEXT, book_key TEXT, usage TEXT, timestamp INTEGER)`,

		// One book recorded twice under the same ASIN (Kindle does this
		// across re-downloads), one with a non-canonical ASIN, one with
		// no lookups at all.
		`INSERT INTO book_info VALUES ('prozess-1', 'B00ABCDEFG', 'Der Prozess', 'Franz Kafka', 'de-DE')`,
		`INSERT INTO book_info VALUES ('prozess-2', 'B00ABCDEFG', 'Der Prozess', 'Franz Kafka', 'de-DE')`,
		`INSERT INTO book_info VALUES ('etranger', 'FR!', 'L''Étranger', 'Albert Camus', 'fr')`,
		`INSERT INTO book_info VALUES ('untouched', 'B00ZZZZZZZ', 'Never Opened', 'Nobody', 'en-US')`,

		`INSERT INTO words VALUES ('de:verhaftung', 'Verhaftung', 'Verhaftung', 'de')`,
		`INSERT INTO words VALUES ('de:behörde', 'Behörden', 'Behörde', 'de')`,

		`INSERT INTO lookups VALUES ('de:verhaftung', 'prozess-1', 'seine Verhaftung am Morgen', 100)`,
		`INSERT INTO lookups VALUES ('de:behörde', 'prozess-1', 'die zuständigen Behörden', 300)`,
		`INSERT INTO lookups VALUES ('fr:absurde', 'etranger', 'le sentiment de l''absurde', 200)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestReaderBooks(t *testing.T) {
	r, err := Open(writeFixtureDB(t))
	require.NoError(t, err)
	defer r.Close()

	books, err := r.Books()
	require.NoError(t, err)

	// Duplicate ASIN rows collapse, the lookup-less book is excluded,
	// and ordering is most recently read first.
	require.Len(t, books, 2)
	assert.Equal(t, "Der Prozess", books[0].Title)
	assert.Equal(t, "L'Étranger", books[1].Title)

	kafka := books[0]
	assert.Equal(t, "Franz Kafka", kafka.Authors)
	assert.Equal(t, "de", kafka.Language, "regioned code reduces to base language")
	assert.Equal(t, 2, kafka.Count)
	assert.Equal(t, int64(300), kafka.LastLookup)
	assert.Equal(t, "http://images.amazon.com/images/P/B00ABCDEFG.01.20TRZZZZ.jpg", kafka.Cover)

	// Non-canonical ASINs get no cover URL.
	assert.Empty(t, books[1].Cover)
}

func TestReaderVocabs(t *testing.T) {
	r, err := Open(writeFixtureDB(t))
	require.NoError(t, err)
	defer r.Close()

	books, err := r.Books()
	require.NoError(t, err)

	vocabs, err := r.Vocabs(books[0].ID)
	require.NoError(t, err)
	require.Len(t, vocabs, 2)
	assert.Equal(t, "Verhaftung", vocabs[0].Selection)
	assert.Equal(t, "Verhaftung", vocabs[0].BaseForm)
	assert.Equal(t, "seine Verhaftung am Morgen", vocabs[0].Context)
	assert.Equal(t, "Behörden", vocabs[1].Selection)
	assert.Equal(t, "Behörde", vocabs[1].BaseForm)

	// A lookup whose word row is missing still comes through, with the
	// word fields empty.
	vocabs, err = r.Vocabs("etranger")
	require.NoError(t, err)
	require.Len(t, vocabs, 1)
	assert.Empty(t, vocabs[0].Selection)
	assert.Equal(t, "le sentiment de l'absurde", vocabs[0].Context)

	vocabs, err = r.Vocabs("no-such-book")
	require.NoError(t, err)
	assert.Empty(t, vocabs)
}

func TestReaderRejectsWrongSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Books()
	require.ErrorIs(t, err, ErrNotVocabDB)
}

func TestReaderRejectsGarbage(t *testing.T) {
	r, err := Open([]byte("this is not a sqlite file at all, just text padding"))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Books()
	require.ErrorIs(t, err, ErrNotVocabDB)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.db")
	require.NoError(t, os.WriteFile(path, writeFixtureDB(t), 0600))

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	books, err := r.Books()
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
