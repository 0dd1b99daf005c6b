package repository

import (
	"context"

	"keyword-aggregator/domain"
)

// ArticleRepository handles article persistence in the backing store.
type ArticleRepository interface {
	// UpsertArticles writes a batch keyed by external id. Reprocessing an
	// article overwrites its keywords and status rather than duplicating it.
	UpsertArticles(ctx context.Context, articles []*domain.Article) error

	// FindClassified returns every successfully classified article. This is
	// the ground truth the aggregation cache rebuilds from.
	FindClassified(ctx context.Context) ([]*domain.Article, error)

	FindByID(ctx context.Context, externalID string) (*domain.Article, error)
}

// SourceRepository resolves source descriptors configured per feed.
type SourceRepository interface {
	// FindByFeedID returns the source descriptor for a feed id, or
	// domain.ErrSourceNotFound when the feed has no configured source.
	FindByFeedID(ctx context.Context, feedID int64) (*domain.Source, error)
}
