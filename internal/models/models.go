package models

// VocabItem is a single looked-up word together with the passage it was
// looked up in. Two items are the same entry when their Selection and
// Context match; every store keys lookups, updates and dedup on that pair.
type VocabItem struct {
	// Selection is the exact text highlighted on the device.
	Selection string `json:"selection"`
	// BaseForm is the dictionary (lemma) form of the word.
	BaseForm string `json:"baseForm"`
	// Context is the sentence or passage the word appeared in.
	Context string `json:"context"`
	// Def is the plain-text definition once enriched. Empty means the
	// item still needs a definition.
	Def string `json:"def,omitempty"`
	// Senses holds a structured definition when a dictionary API
	// supplied one. Optional; Def wins for display when both are set.
	Senses []Sense `json:"senses,omitempty"`
	// Language is the ISO language code. Set for extension words;
	// Kindle words inherit the language of their book.
	Language string `json:"language,omitempty"`
	// Removed is a tombstone. Removed items are hidden from decks and
	// exports but kept in storage so a re-import can't resurrect them.
	Removed bool `json:"_removed,omitempty"`
}

// SameEntry reports whether other refers to the same vocabulary entry.
func (v *VocabItem) SameEntry(other VocabItem) bool {
	return v.Selection == other.Selection && v.Context == other.Context
}

// Defined reports whether the item already carries a definition.
func (v *VocabItem) Defined() bool {
	return v.Def != "" || len(v.Senses) > 0
}

// Sense is one sense of a structured dictionary definition.
type Sense struct {
	Text          string   `json:"text"`
	Transcription string   `json:"ts,omitempty"`
	PartOfSpeech  string   `json:"pos,omitempty"`
	Article       string   `json:"article,omitempty"`
	Plural        string   `json:"plural,omitempty"`
	Translations  []string `json:"tr,omitempty"`
	Example       string   `json:"example,omitempty"`
	ExampleTr     string   `json:"exampleTr,omitempty"`
}

// Book is a book record extracted from a Kindle vocabulary database.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Language string `json:"language"`
	ASIN     string `json:"asin"`
	// Cover is an image URL derived from the ASIN, empty when the ASIN
	// does not have the canonical 10-character form.
	Cover string `json:"cover"`
	// Count is the number of lookups recorded for the book.
	Count int `json:"count"`
	// LastLookup is the timestamp of the most recent lookup.
	LastLookup int64 `json:"lastLookup"`
	// Vocabs stays nil until the book's entries have been resolved.
	Vocabs []VocabItem `json:"vocabs,omitempty"`
}

// Deck is a presentation-ready collection of live vocabulary items,
// grouped either by book or by language. Extension decks leave the
// book-only fields empty.
type Deck struct {
	Lang     string      `json:"lang"`
	Language string      `json:"language"`
	Title    string      `json:"title,omitempty"`
	Authors  string      `json:"authors,omitempty"`
	Cover    string      `json:"cover,omitempty"`
	Words    []VocabItem `json:"words"`
}

// ItemPatch is a partial update for a vocabulary item. Nil fields are
// left untouched; set fields overwrite the stored value.
type ItemPatch struct {
	BaseForm *string  `json:"baseForm,omitempty"`
	Def      *string  `json:"def,omitempty"`
	Senses   *[]Sense `json:"senses,omitempty"`
	Removed  *bool    `json:"_removed,omitempty"`
}

// Apply merges the patch into the item.
func (p ItemPatch) Apply(item *VocabItem) {
	if p.BaseForm != nil {
		item.BaseForm = *p.BaseForm
	}
	if p.Def != nil {
		item.Def = *p.Def
	}
	if p.Senses != nil {
		item.Senses = *p.Senses
	}
	if p.Removed != nil {
		item.Removed = *p.Removed
	}
}
