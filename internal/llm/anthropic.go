package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// Anthropic speaks the legacy text-completion wire format: a single
// prompt string wrapped in Human/Assistant turns, answered in the
// `completion` field.
type Anthropic struct {
	settings Settings
}

// FetchBatch requests definitions for one batch of items from Anthropic.
func (a *Anthropic) FetchBatch(ctx context.Context, items []models.VocabItem, opts PromptOptions) (map[string]string, error) {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-instant-1"
	}

	body := map[string]any{
		"model":                model,
		"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", BuildBatchPrompt(items, opts)),
		"max_tokens_to_sample": 1000,
		"temperature":          0.3,
	}

	headers := map[string]string{
		"x-api-key": a.settings.APIKey,
	}

	raw, err := postJSON(ctx, a.settings.APIURL, headers, body)
	if err != nil {
		return nil, err
	}

	var response struct {
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if response.Completion == "" {
		return nil, fmt.Errorf("empty completion returned from Anthropic")
	}

	return parseDefinitions(response.Completion)
}
