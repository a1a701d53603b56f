package llm

import (
	"fmt"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// BuildBatchPrompt enumerates a batch of words with their contexts and
// asks for a JSON object keyed by 1-based index.
func BuildBatchPrompt(items []models.VocabItem, opts PromptOptions) string {
	sourceLang := opts.SourceLang
	if sourceLang == "" {
		sourceLang = "German"
	}
	targetLang := opts.TargetLang
	if targetLang == "" {
		targetLang = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Define these %s words in %s for the given context. In case a word has multiple definitions, choose the one that best fits into the context.\n", sourceLang, targetLang)

	if strings.EqualFold(sourceLang, "german") {
		b.WriteString(`For German nouns, include article and plural form in the definition. For example, if the given German word is "Apfel", your definition should be "(der, Äpfel) apple"; another example, given "Birne", your definition should be "(die, -n) pear". From the examples, you see that if the plural form has Umlauts, then you show the complete form, other you should the shortened form.` + "\n\n")
	}

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\nContext: %s\n\n", i+1, item.Selection, item.Context)
	}

	b.WriteString("Format your response as a valid JSON object with the following structure:\n")
	b.WriteString("{\n  \"1\": \"definition of word 1\",\n  \"2\": \"definition of word 2\",\n  ...\n}\n")
	b.WriteString("Each key should be the index number of the word, and each value should be the definition. Don't prefix or suffix any words or symbols etc. before the opening brace and after the closing brace of the json object.\n")

	return b.String()
}
