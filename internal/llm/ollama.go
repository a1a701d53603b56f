package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// Ollama speaks the local /api/generate wire format. No auth; useful
// for defining words without sending Kindle data to a hosted API.
type Ollama struct {
	settings Settings
}

// FetchBatch requests definitions for one batch of items from Ollama.
func (o *Ollama) FetchBatch(ctx context.Context, items []models.VocabItem, opts PromptOptions) (map[string]string, error) {
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3.1"
	}

	url := o.settings.APIURL
	if !strings.Contains(url, "/api/generate") {
		url = strings.TrimSuffix(url, "/") + "/api/generate"
	}

	body := map[string]any{
		"model":  model,
		"prompt": BuildBatchPrompt(items, opts),
		"stream": false,
		"options": map[string]any{
			"temperature": 0.3,
		},
	}

	raw, err := postJSON(ctx, url, nil, body)
	if err != nil {
		return nil, err
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return parseDefinitions(response.Response)
}
