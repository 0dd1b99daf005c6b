// ABOUTME: This file implements the materialized keyword index consumed by the visualization
// ABOUTME: Supports concurrent incremental merges and exclusive full rebuilds with atomic swap
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"keyword-aggregator/domain"
	"keyword-aggregator/repository"
)

// AggregationCache holds the keyword aggregate. It is an injected component:
// tests instantiate independent caches, nothing lives at package level.
//
// Incremental merges may run concurrently with each other and with reads.
// A full rebuild is exclusive with other rebuilds (guard flag) and installs
// its result with one atomic map swap, so readers never see a partial state.
type AggregationCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.KeywordAggregateEntry

	rebuildInProgress atomic.Bool

	articles repository.ArticleRepository
	logger   *slog.Logger
}

func NewAggregationCache(articles repository.ArticleRepository, logger *slog.Logger) *AggregationCache {
	return &AggregationCache{
		entries:  make(map[string]*domain.KeywordAggregateEntry),
		articles: articles,
		logger:   logger,
	}
}

// MergeOne folds one classified article into the aggregate. The merge is
// idempotent per (article, keyword): reprocessing never double-counts.
func (c *AggregationCache) MergeOne(article *domain.Article, result domain.ClassificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mergeInto(c.entries, result.Keywords, article.ExternalID, result.Bias, article.Source.Category)
}

// RebuildAll recomputes the whole aggregate from the persisted classified
// article set and swaps it in. A rebuild arriving while one runs is a no-op.
// A failed read leaves the previous snapshot intact.
func (c *AggregationCache) RebuildAll(ctx context.Context) error {
	if !c.rebuildInProgress.CompareAndSwap(false, true) {
		c.logger.Info("rebuild already in progress, skipping")
		return nil
	}
	defer c.rebuildInProgress.Store(false)

	articles, err := c.articles.FindClassified(ctx)
	if err != nil {
		c.logger.Error("rebuild aborted, keeping previous snapshot", "error", err)
		return fmt.Errorf("failed to read classified articles: %w", err)
	}

	fresh := make(map[string]*domain.KeywordAggregateEntry)
	for _, article := range articles {
		mergeInto(fresh, article.Keywords, article.ExternalID, article.Source.Bias, article.Source.Category)
	}

	c.mu.Lock()
	c.entries = fresh
	c.mu.Unlock()

	c.logger.Info("aggregate rebuilt", "articles", len(articles), "keywords", len(fresh))

	return nil
}

// Snapshot returns a deep copy of the current aggregate. Reads never block
// on a rebuild and never observe later merges.
func (c *AggregationCache) Snapshot() map[string]*domain.KeywordAggregateEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]*domain.KeywordAggregateEntry, len(c.entries))
	for keyword, entry := range c.entries {
		snapshot[keyword] = entry.Clone()
	}

	return snapshot
}

// RebuildInProgress reports whether a full rebuild is currently running.
func (c *AggregationCache) RebuildInProgress() bool {
	return c.rebuildInProgress.Load()
}

// Len returns the number of distinct keywords currently aggregated.
func (c *AggregationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func mergeInto(entries map[string]*domain.KeywordAggregateEntry, keywords []string, articleID string, bias domain.Bias, category string) {
	for _, keyword := range keywords {
		entry, ok := entries[keyword]
		if !ok {
			entry = domain.NewKeywordAggregateEntry(keyword)
			entries[keyword] = entry
		}

		entry.Add(articleID, bias, category)
	}
}
