package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vocabdeck/vocabdeck/internal/models"
)

// ErrUnsupportedProvider is returned when the configured API URL does
// not match any known provider.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// Settings is the user-supplied LLM configuration. The API URL decides
// which provider wire format is used.
type Settings struct {
	APIKey string `json:"apiKey"`
	APIURL string `json:"apiUrl"`
}

// PromptOptions tune the definition prompt.
type PromptOptions struct {
	// SourceLang is the language of the words, e.g. "German".
	SourceLang string
	// TargetLang is the language to define them in, e.g. "English".
	TargetLang string
}

// Provider is a remote definition backend. FetchBatch sends one batch
// of items and returns definitions keyed by 1-based position ("1", "2",
// ...). Each provider owns its request envelope, auth scheme and
// response extraction; the batching engine never sees any of that.
type Provider interface {
	FetchBatch(ctx context.Context, items []models.VocabItem, opts PromptOptions) (map[string]string, error)
}

// newProvider selects a provider implementation by URL substring.
func newProvider(settings Settings) (Provider, error) {
	url := settings.APIURL
	switch {
	case strings.Contains(url, "openai"):
		return &OpenAI{settings: settings}, nil
	case strings.Contains(url, "anthropic"):
		return &Anthropic{settings: settings}, nil
	case strings.Contains(url, "gemini"):
		return &Gemini{settings: settings}, nil
	case strings.Contains(url, "ollama"), strings.Contains(url, "11434"):
		return &Ollama{settings: settings}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, url)
	}
}

// httpClient is shared by all providers. A hung provider otherwise
// stalls its batch forever.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// postJSON marshals body, posts it and returns the raw response bytes.
// Non-2xx responses are returned as errors carrying the response body.
func postJSON(ctx context.Context, url string, headers map[string]string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("received non-2xx status code: %d - %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// parseDefinitions recovers the index→definition object from raw
// provider text that may be wrapped in code fences or prose.
func parseDefinitions(text string) (map[string]string, error) {
	cleaned := ExtractJSONFromText(text)
	var defs map[string]string
	if err := json.Unmarshal([]byte(cleaned), &defs); err != nil {
		return nil, fmt.Errorf("failed to parse definitions JSON: %w", err)
	}
	return defs, nil
}
