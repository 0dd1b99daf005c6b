// ABOUTME: This file implements the classification client with content-addressed caching
// ABOUTME: Calls the inference service with bounded retry and degrades to a fallback result
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"keyword-aggregator/config"
	"keyword-aggregator/domain"
	"keyword-aggregator/retry"
)

const promptTemplate = `You are a news analyst. Analyze the article below and respond with a single JSON object, nothing else.

ARTICLE:
Title: %s
Snippet: %s

Respond with a JSON object containing%s a "keywords" field: a list of at most %d short topical keywords.

GUIDELINES:
- Prefer specific people, places, organizations and topics over generic words
- Do not include publication names, dates or generic news terms
- Keywords must appear in or be directly implied by the article text`

const biasPromptClause = ` a "bias" field ("Left", "Center" or "Right") and`

// cachedClassification is what the LRU stores: keywords and path only.
// Bias is never cached because the same content can arrive from sources
// with different bias labels; the caller's source bias always wins.
type cachedClassification struct {
	Keywords []string
	Success  bool
}

// Classifier is the classification client. Classify never returns an error;
// every failure path degrades to a fallback result within the retry budget.
type Classifier struct {
	inference   InferenceAPI
	cache       *expirable.LRU[string, cachedClassification]
	retrier     *retry.Retrier
	maxKeywords int
	logger      *slog.Logger
}

func NewClassifier(inference InferenceAPI, cacheCfg *config.CacheConfig, maxKeywords int, logger *slog.Logger) *Classifier {
	return NewClassifierWithPolicy(inference, cacheCfg, maxKeywords, retry.DefaultPolicy(), logger)
}

// NewClassifierWithPolicy allows callers (and tests) to swap the retry
// schedule while keeping the transient/permanent classification fixed.
func NewClassifierWithPolicy(inference InferenceAPI, cacheCfg *config.CacheConfig, maxKeywords int, policy retry.Policy, logger *slog.Logger) *Classifier {
	return &Classifier{
		inference:   inference,
		cache:       expirable.NewLRU[string, cachedClassification](cacheCfg.Size, nil, cacheCfg.TTL),
		retrier:     retry.NewRetrier(policy, IsRetryableError, logger),
		maxKeywords: maxKeywords,
		logger:      logger,
	}
}

// Classify derives keywords for one article. The returned bias is always the
// source bias passed in; the inference service's own bias estimate is
// discarded unconditionally.
func (c *Classifier) Classify(ctx context.Context, title, snippet string, sourceBias domain.Bias) domain.ClassificationResult {
	key := cacheKey(title, snippet, sourceBias.Known())

	if cached, ok := c.cache.Get(key); ok {
		c.logger.Debug("classification cache hit", "key", key)
		return domain.ClassificationResult{
			Bias:     sourceBias,
			Keywords: cached.Keywords,
			Success:  cached.Success,
		}
	}

	prompt := c.buildPrompt(title, snippet, sourceBias.Known())

	var raw string
	err := c.retrier.Do(ctx, func() error {
		var genErr error
		raw, genErr = c.inference.Generate(ctx, prompt)
		return genErr
	})
	if err != nil {
		c.logger.Warn("classification degraded to fallback", "title", title, "error", err)
		return c.cacheAndReturn(key, domain.FallbackResult(sourceBias))
	}

	keywords, err := parseKeywords(raw)
	if err != nil {
		// Deterministic parse failure: no retry, cache the fallback so a
		// persistently misbehaving service is not hammered with the same input.
		c.logger.Warn("inference response unusable", "title", title, "error", err)
		return c.cacheAndReturn(key, domain.FallbackResult(sourceBias))
	}

	if len(keywords) > c.maxKeywords {
		keywords = keywords[:c.maxKeywords]
	}

	return c.cacheAndReturn(key, domain.ClassificationResult{
		Bias:     sourceBias,
		Keywords: keywords,
		Success:  true,
	})
}

func (c *Classifier) cacheAndReturn(key string, result domain.ClassificationResult) domain.ClassificationResult {
	if result.Keywords == nil {
		result.Keywords = []string{}
	}

	c.cache.Add(key, cachedClassification{Keywords: result.Keywords, Success: result.Success})

	return result
}

func (c *Classifier) buildPrompt(title, snippet string, biasKnown bool) string {
	biasClause := ""
	if !biasKnown {
		biasClause = biasPromptClause
	}

	return fmt.Sprintf(promptTemplate, title, snippet, biasClause, c.maxKeywords)
}

// parseKeywords decodes the model's inner JSON defensively. Anything that is
// not an object with a list of strings under "keywords" is an error; an
// optional "bias" field is ignored by construction.
func parseKeywords(raw string) ([]string, error) {
	var parsed struct {
		Keywords *[]string `json:"keywords"`
	}

	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if parsed.Keywords == nil {
		return nil, fmt.Errorf("%w: keywords field missing or not a list", domain.ErrMalformedResponse)
	}

	keywords := make([]string, 0, len(*parsed.Keywords))
	for _, kw := range *parsed.Keywords {
		if strings.TrimSpace(kw) != "" {
			keywords = append(keywords, kw)
		}
	}

	return keywords, nil
}

// cacheKey hashes the normalized content and tags it with whether the bias
// was already known (a known bias changes the prompt sent to the service).
func cacheKey(title, snippet string, biasKnown bool) string {
	normalized := normalizeForHash(title + ". " + snippet)
	digest := sha256.Sum256([]byte(normalized))

	return fmt.Sprintf("%s:%t", hex.EncodeToString(digest[:]), biasKnown)
}

// normalizeForHash lowercases, strips punctuation and collapses whitespace
// so trivial formatting differences share one cache entry.
func normalizeForHash(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
