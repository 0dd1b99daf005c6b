// ABOUTME: This file implements the ingestion pass from the feed reader into the pipeline
// ABOUTME: Resolves sources, builds snippets, dedupes and enqueues articles for classification
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"keyword-aggregator/domain"
	"keyword-aggregator/repository"
	"keyword-aggregator/utils/html_parser"
)

// snippetMaxRunes bounds the stored content snippet.
const snippetMaxRunes = 300

// IngestStats summarizes one ingestion pass.
type IngestStats struct {
	Fetched   int
	Skipped   int
	Collapsed int
	Enqueued  int
}

// FeedIngestor pulls unread entries, turns them into articles and feeds the
// classification queue. Entry ids are marked read only after the articles
// are persisted (or after a deliberate, counted skip), never before.
type FeedIngestor struct {
	reader       FeedReader
	sources      repository.SourceRepository
	articles     repository.ArticleRepository
	deduplicator *Deduplicator
	queue        ArticlePusher
	logger       *slog.Logger
}

func NewFeedIngestor(
	reader FeedReader,
	sources repository.SourceRepository,
	articles repository.ArticleRepository,
	deduplicator *Deduplicator,
	queue ArticlePusher,
	logger *slog.Logger,
) *FeedIngestor {
	return &FeedIngestor{
		reader:       reader,
		sources:      sources,
		articles:     articles,
		deduplicator: deduplicator,
		queue:        queue,
		logger:       logger,
	}
}

// IngestOnce runs one pass: fetch, resolve, dedupe, persist, mark read,
// enqueue. Input order from the reader is preserved into dedup so the
// first-seen-wins rule is deterministic.
func (s *FeedIngestor) IngestOnce(ctx context.Context) (IngestStats, error) {
	stats := IngestStats{}

	entries, err := s.reader.FetchUnread(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch entries: %w", err)
	}

	stats.Fetched = len(entries)
	if len(entries) == 0 {
		return stats, nil
	}

	consumed := make([]int64, 0, len(entries))
	candidates := make([]domain.Article, 0, len(entries))

	for _, entry := range entries {
		source, err := s.sources.FindByFeedID(ctx, entry.FeedID)
		if err != nil {
			if errors.Is(err, domain.ErrSourceNotFound) {
				// Bounded skip: the entry is consumed but never classified.
				s.logger.Warn("no source configured for feed, skipping entry",
					"feed_id", entry.FeedID,
					"entry_id", entry.EntryID)
				stats.Skipped++
				consumed = append(consumed, entry.EntryID)
				continue
			}
			return stats, fmt.Errorf("failed to resolve source for feed %d: %w", entry.FeedID, err)
		}

		consumed = append(consumed, entry.EntryID)
		candidates = append(candidates, domain.Article{
			ExternalID:     strconv.FormatInt(entry.EntryID, 10),
			Title:          entry.Title,
			URL:            entry.URL,
			ContentSnippet: html_parser.Snippet(entry.Content, snippetMaxRunes),
			PublishedAt:    entry.PublishedAt,
			Source:         *source,
		})
	}

	survivors := s.deduplicator.Dedupe(candidates)
	stats.Collapsed = len(candidates) - len(survivors)

	// Persist the survivors unclassified first, so marking the feed entries
	// read never races ahead of the backing store.
	toPersist := make([]*domain.Article, len(survivors))
	for i := range survivors {
		toPersist[i] = &survivors[i]
	}

	if err := s.articles.UpsertArticles(ctx, toPersist); err != nil {
		return stats, fmt.Errorf("failed to persist ingested articles: %w", err)
	}

	if err := s.reader.MarkRead(ctx, consumed); err != nil {
		// Already persisted; the worst case is refetching entries whose
		// upsert is idempotent. Log and continue.
		s.logger.Error("failed to mark entries read", "error", err)
	}

	for _, article := range survivors {
		if err := s.queue.Push(ctx, article); err != nil {
			return stats, fmt.Errorf("failed to enqueue article %s: %w", article.ExternalID, err)
		}
		stats.Enqueued++
	}

	s.logger.Info("ingestion pass complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"collapsed", stats.Collapsed,
		"enqueued", stats.Enqueued)

	return stats, nil
}
