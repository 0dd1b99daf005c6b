// ABOUTME: This file collapses near-duplicate incoming articles to one canonical item per title
// ABOUTME: On collision the article with the more specific source-category path wins
package service

import (
	"log/slog"

	"keyword-aggregator/domain"
)

// Deduplicator keeps one article per normalized title within an ingestion
// cycle. Callers must pass articles in a deterministic order (ingestion
// order); ties keep the first-seen article.
type Deduplicator struct {
	logger *slog.Logger
}

func NewDeduplicator(logger *slog.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Dedupe returns the surviving articles in their original relative order.
// Articles without a usable title are dropped and counted, never erroring.
func (d *Deduplicator) Dedupe(articles []domain.Article) []domain.Article {
	survivors := make([]domain.Article, 0, len(articles))
	byKey := make(map[string]int, len(articles))

	var untitled, collapsed int

	for _, article := range articles {
		key := article.DedupeKey()
		if key == "" {
			untitled++
			continue
		}

		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(survivors)
			survivors = append(survivors, article)
			continue
		}

		collapsed++

		// Strictly deeper category path replaces the incumbent; ties keep it.
		if article.Source.CategoryDepth() > survivors[idx].Source.CategoryDepth() {
			survivors[idx] = article
		}
	}

	if untitled > 0 || collapsed > 0 {
		d.logger.Info("deduplicated articles",
			"input", len(articles),
			"survivors", len(survivors),
			"untitled_dropped", untitled,
			"duplicates_collapsed", collapsed)
	}

	return survivors
}
