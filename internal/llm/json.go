package llm

import (
	"math"
	"regexp"
	"strings"
)

var (
	codeFenceRe  = regexp.MustCompile("```json\\s*|\\s*```")
	jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSONFromText recovers a JSON object from text that may be
// wrapped in markdown code fences or surrounded by prose. It returns
// the first `{...}` span, or the cleaned text unchanged when no object
// is found (letting the JSON parser produce the error).
func ExtractJSONFromText(text string) string {
	cleaned := codeFenceRe.ReplaceAllString(text, "")
	if match := jsonObjectRe.FindString(cleaned); match != "" {
		return match
	}
	return cleaned
}

// EstimateTokenCount estimates the token cost of text. This is a
// deterministic heuristic over character and word counts, not a real
// tokenizer; it only has to be good enough for batch sizing.
func EstimateTokenCount(text string) int {
	if text == "" {
		return 0
	}
	charCount := len(text)
	wordCount := len(strings.Fields(text))

	return int(math.Ceil((float64(charCount)*0.25 + float64(wordCount)*1.3) / 2))
}
