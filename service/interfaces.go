package service

import (
	"context"

	"keyword-aggregator/domain"
	"keyword-aggregator/driver"
)

// InferenceAPI is the slice of the inference driver the classifier needs.
type InferenceAPI interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClassifierService derives keywords for one article. It never returns an
// error: every degraded path resolves to a well-formed result.
type ClassifierService interface {
	Classify(ctx context.Context, title, snippet string, sourceBias domain.Bias) domain.ClassificationResult
}

// KeywordExtractor is the local fallback used when the inference service
// yields nothing usable.
type KeywordExtractor interface {
	Extract(title, snippet string) []string
}

// FeedReader is the slice of the feed-reader driver the ingestor needs.
type FeedReader interface {
	FetchUnread(ctx context.Context) ([]driver.FeedEntry, error)
	MarkRead(ctx context.Context, entryIDs []int64) error
}

// ArticlePusher accepts articles into the classification queue. Push blocks
// under sustained overload; that backpressure is part of the contract.
type ArticlePusher interface {
	Push(ctx context.Context, article domain.Article) error
}
