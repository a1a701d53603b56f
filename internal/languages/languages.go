// Package languages holds the static language-code table used to route
// deck ids: an id that is a known language code belongs to the extension
// vocabulary, anything else is treated as a Kindle book id.
package languages

import (
	_ "embed"
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var tableYAML []byte

var table map[string]string

func init() {
	if err := yaml.Unmarshal(tableYAML, &table); err != nil {
		// The table is embedded at build time, so this only fires on a
		// bad edit to languages.yaml.
		slog.Error("Failed to parse embedded language table", "err", err)
		table = map[string]string{}
	}
}

// IsCode reports whether id is a known language code.
func IsCode(id string) bool {
	_, ok := table[id]
	return ok
}

// Name returns the English display name for a language code. Codes
// missing from the table fall back to the Unicode CLDR name, and to the
// code itself when it doesn't parse as a language tag.
func Name(code string) string {
	if name, ok := table[code]; ok {
		return name
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// Codes returns all codes in the table.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	return codes
}
