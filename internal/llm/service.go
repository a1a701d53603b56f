// Package llm turns vocabulary items without a definition into items
// with one, by batching them into prompts for a configurable remote
// provider under a request-rate ceiling and a token budget.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vocabdeck/vocabdeck/internal/models"
	"github.com/vocabdeck/vocabdeck/internal/storage"
)

// ErrNotConfigured is returned when definitions are requested before an
// API key and URL have been saved.
var ErrNotConfigured = errors.New("LLM API not configured")

const (
	maxRequestsPerMinute = 15
	// tokenLimitPerRequest caps the estimated size of one request;
	// responseTokenBuffer is reserved out of it for the reply.
	tokenLimitPerRequest = 4000
	responseTokenBuffer  = 1000
	// maxBatchSize is the hard ceiling regardless of token estimates.
	maxBatchSize    = 100
	batchSampleSize = 10

	// requestInterval is the minimum wall-clock gap between two
	// dispatched requests.
	requestInterval = time.Minute / maxRequestsPerMinute
)

// Service is the definition-enrichment engine. One instance is shared
// process-wide so that concurrent calls serialize through a single
// rate limiter.
type Service struct {
	mu       sync.RWMutex
	settings Settings
	provider Provider
	limiter  *rate.Limiter
	store    *storage.Store
}

// NewService builds the engine on top of the durable store and restores
// previously saved settings. A store without settings leaves the
// service unconfigured; FetchDefinitions fails fast until SaveSettings
// is called.
func NewService(store *storage.Store) *Service {
	s := &Service{
		store: store,
		// Burst 1 makes this a pure wall-clock gate between requests,
		// not a token bucket with burst allowance.
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
	s.restoreSettings()
	return s
}

func (s *Service) restoreSettings() {
	if s.store == nil {
		return
	}
	key, okKey, err := s.store.Get(storage.KeyLLMAPIKey)
	if err != nil {
		slog.Error("Failed to restore LLM API key", "err", err)
		return
	}
	url, okURL, err := s.store.Get(storage.KeyLLMAPIURL)
	if err != nil {
		slog.Error("Failed to restore LLM API URL", "err", err)
		return
	}
	if okKey && okURL {
		if err := s.configure(Settings{APIKey: key, APIURL: url}); err != nil {
			slog.Error("Saved LLM settings no longer usable", "err", err)
		}
	}
}

// SaveSettings validates, persists and activates new provider settings.
func (s *Service) SaveSettings(settings Settings) error {
	if err := s.configure(settings); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Set(storage.KeyLLMAPIKey, settings.APIKey); err != nil {
		return err
	}
	return s.store.Set(storage.KeyLLMAPIURL, settings.APIURL)
}

func (s *Service) configure(settings Settings) error {
	if settings.APIKey == "" || settings.APIURL == "" {
		return ErrNotConfigured
	}
	provider, err := newProvider(settings)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.provider = provider
	s.mu.Unlock()
	return nil
}

// Settings returns the active settings.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Configured reports whether a provider is active.
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

// FetchDefinitions fills in definitions for every item in items that
// doesn't have one, mutating the items in place. Items are processed in
// sequential batches sized to the token budget; each batch waits for
// the rate gate before dispatch. A failed batch is logged and skipped
// so the call always makes forward progress; callers may re-invoke
// later, since already-defined items are never re-sent.
func (s *Service) FetchDefinitions(ctx context.Context, items []*models.VocabItem, opts PromptOptions) error {
	s.mu.RLock()
	provider := s.provider
	s.mu.RUnlock()
	if provider == nil {
		return ErrNotConfigured
	}

	var pending []*models.VocabItem
	for _, item := range items {
		if !item.Defined() {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	processed := 0
	for processed < len(pending) {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		remaining := pending[processed:]
		size := optimalBatchSize(remaining)
		batch := remaining[:size]

		slog.Info("Processing definition batch",
			"size", size, "from", processed+1, "to", processed+size, "total", len(pending))

		results, err := provider.FetchBatch(ctx, deref(batch), opts)
		if err != nil {
			// Skip-and-continue: the cursor advances past a failed
			// batch so persistent provider failure still terminates.
			slog.Error("Definition batch failed", "from", processed+1, "size", size, "err", err)
			processed += size
			continue
		}

		for i, item := range batch {
			definition, ok := results[strconv.Itoa(i+1)]
			if ok && definition != "" {
				item.Def = normalizeDefinition(definition)
			}
		}
		processed += size
	}

	return nil
}

// optimalBatchSize estimates how many of the remaining items fit under
// the token budget: sample a small prefix, estimate its serialized
// cost, and divide the available budget by the per-item average.
func optimalBatchSize(items []*models.VocabItem) int {
	if len(items) <= 1 {
		return len(items)
	}

	sample := items
	if len(sample) > batchSampleSize {
		sample = sample[:batchSampleSize]
	}
	raw, err := json.Marshal(deref(sample))
	if err != nil {
		return 1
	}
	perItem := float64(EstimateTokenCount(string(raw))) / float64(len(sample))
	if perItem <= 0 {
		perItem = 1
	}

	available := float64(tokenLimitPerRequest - responseTokenBuffer)
	size := int(available / perItem)

	if size < 1 {
		size = 1
	}
	if size > len(items) {
		size = len(items)
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}
	return size
}

// normalizeDefinition discards a provider-added label before a colon,
// e.g. "Haus: house" becomes "house".
func normalizeDefinition(definition string) string {
	if idx := strings.IndexByte(definition, ':'); idx >= 0 {
		if rest := strings.TrimSpace(definition[idx+1:]); rest != "" {
			return rest
		}
	}
	return strings.TrimSpace(definition)
}

func deref(items []*models.VocabItem) []models.VocabItem {
	out := make([]models.VocabItem, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
