// ABOUTME: Tests for the classification client
// ABOUTME: Covers caching, bias handling, retry behavior and degraded paths
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-aggregator/config"
	"keyword-aggregator/domain"
	"keyword-aggregator/driver"
	"keyword-aggregator/retry"
)

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{Size: 64, TTL: time.Minute}
}

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: 2,
		Schedule:   []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
	}
}

func newTestClassifier(inference InferenceAPI) *Classifier {
	return NewClassifierWithPolicy(inference, testCacheConfig(), 3, fastPolicy(), testLoggerService())
}

func TestClassifier_SuccessfulClassification(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["Federal Reserve", "interest rates", "inflation"]}`),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Fed Raises Rates", "The central bank moved again.", domain.BiasCenter)

	assert.True(t, result.Success)
	assert.Equal(t, domain.BiasCenter, result.Bias)
	assert.Equal(t, []string{"Federal Reserve", "interest rates", "inflation"}, result.Keywords)
	assert.Equal(t, 1, inference.calls)
}

func TestClassifier_SourceBiasAlwaysWins(t *testing.T) {
	// The model volunteers a bias; it must be discarded in favor of the
	// source bias supplied by the caller.
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"bias": "Liberal", "keywords": ["budget bill"]}`),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Senate Passes Budget Bill", "Lawmakers voted 60-40.", domain.BiasConservative)

	assert.True(t, result.Success)
	assert.Equal(t, domain.BiasConservative, result.Bias)
}

func TestClassifier_CacheHitSkipsInference(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["shutdown"]}`),
	}}
	c := newTestClassifier(inference)

	first := c.Classify(context.Background(), "Government Shutdown Looms", "Funding runs out Friday.", domain.BiasLeft)
	second := c.Classify(context.Background(), "Government Shutdown Looms", "Funding runs out Friday.", domain.BiasLeft)

	assert.Equal(t, first.Keywords, second.Keywords)
	assert.Equal(t, 1, inference.calls, "second call should be served from cache")
}

func TestClassifier_CacheIgnoresFormattingDifferences(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["shutdown"]}`),
	}}
	c := newTestClassifier(inference)

	c.Classify(context.Background(), "Government Shutdown Looms", "Funding runs out Friday.", domain.BiasLeft)
	c.Classify(context.Background(), "GOVERNMENT  SHUTDOWN LOOMS!", "Funding runs out Friday...", domain.BiasLeft)

	assert.Equal(t, 1, inference.calls)
}

func TestClassifier_CachedKeywordsTakeCallerBias(t *testing.T) {
	// Same content from two differently-biased sources: the cached keywords
	// are shared, but each caller keeps its own bias.
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["trade deal"]}`),
	}}
	c := newTestClassifier(inference)

	left := c.Classify(context.Background(), "Trade Deal Signed", "Tariffs drop next quarter.", domain.BiasLeft)
	right := c.Classify(context.Background(), "Trade Deal Signed", "Tariffs drop next quarter.", domain.BiasRight)

	assert.Equal(t, domain.BiasLeft, left.Bias)
	assert.Equal(t, domain.BiasRight, right.Bias)
	assert.Equal(t, left.Keywords, right.Keywords)
	assert.Equal(t, 1, inference.calls)
}

func TestClassifier_UnknownBiasUsesSeparateCacheEntry(t *testing.T) {
	// An unknown bias changes the prompt, so it must not share a cache
	// entry with the known-bias variant of the same content.
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["one"]}`),
		respond(`{"bias": "Center", "keywords": ["one"]}`),
	}}
	c := newTestClassifier(inference)

	c.Classify(context.Background(), "Same Story", "Same text.", domain.BiasCenter)
	c.Classify(context.Background(), "Same Story", "Same text.", domain.BiasUnknown)

	assert.Equal(t, 2, inference.calls)
}

func TestClassifier_TransientFailureThenSuccess(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		fail(&driver.HTTPError{StatusCode: 503, Message: "overloaded"}),
		respond(`{"keywords": ["recovery"]}`),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Service Recovers", "Second attempt works.", domain.BiasCenter)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"recovery"}, result.Keywords)
	assert.Equal(t, 2, inference.calls)
}

func TestClassifier_RetryBudgetExhaustedFallsBack(t *testing.T) {
	transient := &driver.HTTPError{StatusCode: 503, Message: "overloaded"}
	inference := &stubInference{responses: []func() (string, error){
		fail(transient), fail(transient), fail(transient),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Service Down", "Nothing works.", domain.BiasLeft)

	assert.False(t, result.Success)
	assert.Empty(t, result.Keywords)
	assert.Equal(t, domain.BiasLeft, result.Bias)
	assert.Equal(t, 3, inference.calls, "initial attempt plus two retries")
}

func TestClassifier_PermanentFailureNotRetried(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		fail(errors.New("invalid model name")),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Bad Config", "Permanent error.", domain.BiasCenter)

	assert.False(t, result.Success)
	assert.Equal(t, 1, inference.calls)
}

func TestClassifier_MalformedResponseCachesFallback(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`not json at all`),
	}}
	c := newTestClassifier(inference)

	first := c.Classify(context.Background(), "Garbled", "The model rambled.", domain.BiasCenter)
	second := c.Classify(context.Background(), "Garbled", "The model rambled.", domain.BiasCenter)

	assert.False(t, first.Success)
	assert.Empty(t, first.Keywords)
	assert.False(t, second.Success)
	assert.Equal(t, 1, inference.calls, "the fallback itself must be cached")
}

func TestClassifier_MissingKeywordsFieldIsFallback(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"bias": "Center"}`),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "No Keywords", "Field missing.", domain.BiasCenter)

	assert.False(t, result.Success)
	assert.Empty(t, result.Keywords)
}

func TestClassifier_KeywordListTruncated(t *testing.T) {
	inference := &stubInference{responses: []func() (string, error){
		respond(`{"keywords": ["a1", "b2", "c3", "d4", "e5"]}`),
	}}
	c := newTestClassifier(inference)

	result := c.Classify(context.Background(), "Verbose Model", "Too many keywords.", domain.BiasCenter)

	require.True(t, result.Success)
	assert.Equal(t, []string{"a1", "b2", "c3"}, result.Keywords)
}

func TestParseKeywords(t *testing.T) {
	tests := map[string]struct {
		raw     string
		want    []string
		wantErr bool
	}{
		"valid object": {
			raw:  `{"keywords": ["fed", "rates"]}`,
			want: []string{"fed", "rates"},
		},
		"blank entries dropped": {
			raw:  `{"keywords": ["fed", "  ", ""]}`,
			want: []string{"fed"},
		},
		"empty list is valid": {
			raw:  `{"keywords": []}`,
			want: []string{},
		},
		"extra fields ignored": {
			raw:  `{"bias": "Left", "keywords": ["fed"], "confidence": 0.9}`,
			want: []string{"fed"},
		},
		"not json": {
			raw:     `the keywords are fed and rates`,
			wantErr: true,
		},
		"keywords not a list": {
			raw:     `{"keywords": "fed, rates"}`,
			wantErr: true,
		},
		"missing keywords field": {
			raw:     `{"bias": "Left"}`,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseKeywords(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
