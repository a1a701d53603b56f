package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// Gemini speaks the generateContent wire format. The API key travels as
// a query parameter, not a header.
type Gemini struct {
	settings Settings
}

// FetchBatch requests definitions for one batch of items from Gemini.
func (g *Gemini) FetchBatch(ctx context.Context, items []models.VocabItem, opts PromptOptions) (map[string]string, error) {
	url := g.settings.APIURL
	if !strings.Contains(url, ":generateContent") {
		url += ":generateContent"
	}
	url += "?key=" + g.settings.APIKey

	body := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": BuildBatchPrompt(items, opts)},
				},
			},
		},
	}

	raw, err := postJSON(ctx, url, nil, body)
	if err != nil {
		return nil, err
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(response.Candidates) == 0 {
		if response.Error != nil {
			return nil, fmt.Errorf("gemini API error: %s", response.Error.Message)
		}
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := response.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	return parseDefinitions(candidate.Content.Parts[0].Text)
}
