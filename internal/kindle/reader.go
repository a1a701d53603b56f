// Package kindle reads books and word lookups out of a Kindle vocab.db
// vocabulary database.
package kindle

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// ErrNotVocabDB is returned when the file opens as a database but does
// not contain the tables a Kindle vocabulary database has. Callers
// should report the file as invalid and let the user retry with
// a different one.
var ErrNotVocabDB = errors.New("not a Kindle vocabulary database")

// coverURLFormat produces a cover image URL for a canonical 10-character ASIN.
const coverURLFormat = "http://images.amazon.com/images/P/%s.01.20TRZZZZ.jpg"

// Reader wraps an opened vocabulary database.
type Reader struct {
	db  *sql.DB
	dir string
}

// Open stages the raw database bytes in a temp file and opens them
// read-only. Close releases the temp file.
func Open(data []byte) (*Reader, error) {
	dir, err := os.MkdirTemp("", "vocabdeck-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	path := filepath.Join(dir, "vocab.db")
	if err := os.WriteFile(path, data, 0600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("stage database file: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Reader{db: db, dir: dir}, nil
}

// OpenFile reads a vocabulary database from disk.
func OpenFile(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Open(data)
}

// Books returns the distinct books in the database, each annotated with
// its lookup count and the timestamp of its most recent lookup, newest
// first. Duplicate book records are collapsed by ASIN, and books without
// any lookups are excluded.
func (r *Reader) Books() ([]models.Book, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.title, b.authors, b.lang, b.asin,
		       COUNT(l.timestamp), MAX(l.timestamp)
		FROM book_info b
		JOIN lookups l ON l.book_key = b.id
		GROUP BY b.asin
		ORDER BY MAX(l.timestamp) DESC`)
	if err != nil {
		if isMissingTableErr(err) {
			return nil, ErrNotVocabDB
		}
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		var title, authors, lang, asin sql.NullString
		if err := rows.Scan(&b.ID, &title, &authors, &lang, &asin, &b.Count, &b.LastLookup); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		b.Title = title.String
		b.Authors = authors.String
		// Kindle stores regioned codes like "en-US"; decks only care
		// about the base language.
		b.Language, _, _ = strings.Cut(lang.String, "-")
		b.ASIN = asin.String
		if len(b.ASIN) == 10 {
			b.Cover = fmt.Sprintf(coverURLFormat, b.ASIN)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}
	return books, nil
}

// Vocabs returns all lookups recorded for a book, in query-return order.
// A nil slice means the book has no lookup rows.
func (r *Reader) Vocabs(bookID string) ([]models.VocabItem, error) {
	rows, err := r.db.Query(`
		SELECT w.stem, w.word, l.usage
		FROM lookups l
		LEFT OUTER JOIN words w ON l.word_key = w.id
		WHERE l.book_key = ?`, bookID)
	if err != nil {
		if isMissingTableErr(err) {
			return nil, ErrNotVocabDB
		}
		return nil, fmt.Errorf("query vocabs: %w", err)
	}
	defer rows.Close()

	var vocabs []models.VocabItem
	for rows.Next() {
		var stem, word, usage sql.NullString
		if err := rows.Scan(&stem, &word, &usage); err != nil {
			return nil, fmt.Errorf("scan vocab row: %w", err)
		}
		vocabs = append(vocabs, models.VocabItem{
			BaseForm:  stem.String,
			Selection: word.String,
			Context:   usage.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocab rows: %w", err)
	}
	return vocabs, nil
}

// Close closes the database and removes the staged temp file.
func (r *Reader) Close() error {
	err := r.db.Close()
	if r.dir != "" {
		os.RemoveAll(r.dir)
	}
	return err
}

func isMissingTableErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such table") || strings.Contains(s, "not a database")
}
