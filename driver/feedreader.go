// ABOUTME: This file wraps the miniflux API client behind the shape the ingestor needs
// ABOUTME: Fetches unread entries and marks them read only after the caller commits them
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	miniflux "miniflux.app/v2/client"

	"keyword-aggregator/config"
)

// FeedEntry is one unread entry from the feed reader, flattened to the
// fields the pipeline consumes.
type FeedEntry struct {
	EntryID     int64
	FeedID      int64
	Title       string
	Content     string
	URL         string
	PublishedAt time.Time
	FeedTitle   string
}

type FeedReaderClient struct {
	client *miniflux.Client
	limit  int
	logger *slog.Logger
}

func NewFeedReaderClient(cfg *config.FeedReaderConfig, logger *slog.Logger) *FeedReaderClient {
	return &FeedReaderClient{
		client: miniflux.NewClient(cfg.Endpoint, cfg.APIKey),
		limit:  cfg.FetchLimit,
		logger: logger,
	}
}

// FetchUnread returns up to the configured limit of unread entries, oldest
// first so ingestion order is deterministic.
func (c *FeedReaderClient) FetchUnread(ctx context.Context) ([]FeedEntry, error) {
	result, err := c.client.Entries(&miniflux.Filter{
		Status:    miniflux.EntryStatusUnread,
		Order:     "published_at",
		Direction: "asc",
		Limit:     c.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread entries: %w", err)
	}

	entries := make([]FeedEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		fe := FeedEntry{
			EntryID:     entry.ID,
			FeedID:      entry.FeedID,
			Title:       entry.Title,
			Content:     entry.Content,
			URL:         entry.URL,
			PublishedAt: entry.Date,
		}
		if entry.Feed != nil {
			fe.FeedTitle = entry.Feed.Title
		}
		entries = append(entries, fe)
	}

	c.logger.Info("fetched unread entries", "count", len(entries), "total", result.Total)

	return entries, nil
}

// MarkRead flags consumed entry ids as read. Callers invoke this only after
// the corresponding articles are persisted or counted as deliberate skips.
func (c *FeedReaderClient) MarkRead(ctx context.Context, entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return nil
	}

	if err := c.client.UpdateEntries(entryIDs, miniflux.EntryStatusRead); err != nil {
		return fmt.Errorf("failed to mark entries read: %w", err)
	}

	c.logger.Info("marked entries read", "count", len(entryIDs))

	return nil
}
