// Package anki renders vocabulary items as tab-separated flashcard
// text ready for import into Anki or similar tools.
package anki

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// Format selects the card shape of an export.
type Format string

const (
	// FormatPlain is a flat word/definition/context record.
	FormatPlain Format = "plain"
	// FormatBasic is a two-field front/back card.
	FormatBasic Format = "basic"
	// FormatCloze is a cloze-deletion card.
	FormatCloze Format = "cloze"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPlain, FormatBasic, FormatCloze:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// ExportCSV renders items as TSV, one record per line, no header row.
// Removed items are excluded.
func ExportCSV(items []models.VocabItem, format Format) string {
	mapping := plain
	switch format {
	case FormatBasic:
		mapping = basic
	case FormatCloze:
		mapping = cloze
	}

	var lines []string
	for _, item := range items {
		if item.Removed {
			continue
		}
		lines = append(lines, strings.Join(mapping(item), "\t"))
	}
	return strings.Join(lines, "\n")
}

// plain is [word, definition, plural, usage note, usage translation,
// context with the selection bolded].
func plain(item models.VocabItem) []string {
	var plural, example, exampleTr string
	if len(item.Senses) > 0 {
		plural = item.Senses[0].Plural
		example = item.Senses[0].Example
		exampleTr = item.Senses[0].ExampleTr
	}
	return []string{
		formatWord(item),
		formatDefinition(item),
		plural,
		example,
		exampleTr,
		formatContext(item),
	}
}

// basic is a front/back card: word plus pronunciation plus context on
// the front, the definition (or the context again) on the back.
func basic(item models.VocabItem) []string {
	front := formatWord(item)
	if len(item.Senses) > 0 && item.Senses[0].Transcription != "" {
		front += fmt.Sprintf(`<br /><small class="ipa">%s</small>`, item.Senses[0].Transcription)
	}
	context := fmt.Sprintf(`<p class="context">%s</p>`, formatContext(item))
	front += context

	back := formatDefinition(item)
	if back == "" {
		back = context
	}
	return []string{front, back}
}

// cloze is [context with the selection as a cloze deletion, word,
// definition].
func cloze(item models.VocabItem) []string {
	deleted := highlightSelection(item.Context, item.Selection, "{{c1::"+item.Selection+"}}")
	return []string{deleted, formatWord(item), formatDefinition(item)}
}

// formatWord renders the headword: the structured sense with article
// and grammar notes when available, the base form (or raw selection)
// otherwise.
func formatWord(item models.VocabItem) string {
	if len(item.Senses) == 0 {
		if item.BaseForm != "" {
			return item.BaseForm
		}
		return item.Selection
	}

	sense := item.Senses[0]
	word := sense.Text
	if word == "" {
		word = item.BaseForm
	}
	if sense.Article != "" {
		word = sense.Article + " " + word
	}
	var extra []string
	if sense.PartOfSpeech != "" {
		extra = append(extra, sense.PartOfSpeech)
	}
	if sense.Plural != "" {
		extra = append(extra, sense.Plural)
	}
	if len(extra) > 0 {
		word += "; " + strings.Join(extra, ", ")
	}
	return word
}

// formatDefinition prefers the plain enriched definition and falls back
// to the first translations of the structured senses.
func formatDefinition(item models.VocabItem) string {
	if item.Def != "" {
		return item.Def
	}
	const maxDefs = 2
	var defs []string
	for _, sense := range item.Senses {
		defs = append(defs, sense.Translations...)
	}
	if len(defs) > maxDefs {
		defs = defs[:maxDefs]
	}
	return strings.Join(defs, "; ")
}

// formatContext bolds the selection inside its context.
func formatContext(item models.VocabItem) string {
	return highlightSelection(item.Context, item.Selection, "<b>"+item.Selection+"</b>")
}

// highlightSelection replaces the selection inside context with repl.
// It tries a whole-word-boundary match first and falls back to a plain
// substring split when that finds nothing. Embedded newlines collapse
// to spaces.
func highlightSelection(context, selection, repl string) string {
	if selection == "" {
		return strings.ReplaceAll(context, "\n", " ")
	}

	var parts []string
	re, err := regexp.Compile(`\b` + escapeSelection(selection) + `\b`)
	if err == nil {
		parts = re.Split(context, -1)
	}
	if len(parts) <= 1 {
		parts = strings.Split(context, selection)
	}
	return strings.ReplaceAll(strings.Join(parts, repl), "\n", " ")
}

// escapeSelection builds a regexp matching the selection literally by
// wrapping every rune in its own character class. Overly conservative,
// but safe for any selection text.
func escapeSelection(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case ']', '^', '-', '\\':
			b.WriteString(`[\`)
			b.WriteRune(r)
			b.WriteString(`]`)
		default:
			b.WriteRune('[')
			b.WriteRune(r)
			b.WriteRune(']')
		}
	}
	return b.String()
}
