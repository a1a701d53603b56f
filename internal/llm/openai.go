package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// OpenAI speaks the chat-completions wire format.
type OpenAI struct {
	settings Settings
}

// FetchBatch requests definitions for one batch of items from OpenAI.
func (o *OpenAI) FetchBatch(ctx context.Context, items []models.VocabItem, opts PromptOptions) (map[string]string, error) {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a helpful dictionary assistant that provides concise, accurate definitions. Always format your responses as valid JSON when requested.",
			},
			{
				"role":    "user",
				"content": BuildBatchPrompt(items, opts),
			},
		},
		"max_tokens":  1000,
		"temperature": 0.3,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.settings.APIKey,
	}

	raw, err := postJSON(ctx, o.settings.APIURL, headers, body)
	if err != nil {
		return nil, err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI")
	}

	return parseDefinitions(response.Choices[0].Message.Content)
}
