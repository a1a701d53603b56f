package llm

import (
	"strings"
	"testing"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

func TestBuildBatchPrompt(t *testing.T) {
	items := []models.VocabItem{
		{Selection: "Haus", Context: "Das Haus ist groß"},
		{Selection: "Birne", Context: "Die Birne ist reif"},
	}

	prompt := BuildBatchPrompt(items, PromptOptions{SourceLang: "German", TargetLang: "English"})

	for _, want := range []string{
		"Define these German words in English",
		"1. Haus\nContext: Das Haus ist groß",
		"2. Birne\nContext: Die Birne ist reif",
		`"1": "definition of word 1"`,
		"valid JSON object",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}

	// German gets the article-and-plural instruction, other languages don't.
	if !strings.Contains(prompt, "include article and plural form") {
		t.Error("Expected German noun instructions")
	}
	french := BuildBatchPrompt(items, PromptOptions{SourceLang: "French"})
	if strings.Contains(french, "include article and plural form") {
		t.Error("French prompt should not carry German noun instructions")
	}
}

func TestBuildBatchPromptDefaults(t *testing.T) {
	prompt := BuildBatchPrompt([]models.VocabItem{{Selection: "Haus", Context: "c"}}, PromptOptions{})
	if !strings.Contains(prompt, "Define these German words in English") {
		t.Errorf("Expected German→English defaults:\n%s", prompt)
	}
}
