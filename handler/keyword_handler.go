// ABOUTME: This file implements the keyword aggregate endpoints
// ABOUTME: Serves snapshots of the aggregation cache and triggers full rebuilds
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"keyword-aggregator/domain"
	"keyword-aggregator/service"
)

// keywordEntryResponse is the wire shape of one aggregate row. ArticleIDs
// stay internal; consumers get the derived counts and label sets.
type keywordEntryResponse struct {
	Keyword    string        `json:"keyword"`
	Count      int           `json:"count"`
	Biases     []domain.Bias `json:"biases"`
	Categories []string      `json:"categories"`
}

type keywordListResponse struct {
	Keywords []keywordEntryResponse `json:"keywords"`
	Total    int                    `json:"total"`
}

// KeywordHandler serves the aggregation cache over HTTP.
type KeywordHandler struct {
	aggregate *service.AggregationCache
	logger    *slog.Logger
}

func NewKeywordHandler(aggregate *service.AggregationCache, logger *slog.Logger) *KeywordHandler {
	return &KeywordHandler{
		aggregate: aggregate,
		logger:    logger,
	}
}

// HandleSnapshot processes GET /v1/keywords. Entries come back ordered by
// count descending, keyword ascending on ties, so the response is stable.
func (h *KeywordHandler) HandleSnapshot(c echo.Context) error {
	snapshot := h.aggregate.Snapshot()

	entries := make([]keywordEntryResponse, 0, len(snapshot))
	for _, entry := range snapshot {
		categories := make([]string, 0, len(entry.Categories))
		for category := range entry.Categories {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		entries = append(entries, keywordEntryResponse{
			Keyword:    entry.Keyword,
			Count:      entry.Count,
			Biases:     entry.Biases,
			Categories: categories,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Keyword < entries[j].Keyword
	})

	return c.JSON(http.StatusOK, keywordListResponse{
		Keywords: entries,
		Total:    len(entries),
	})
}

// HandleRebuild processes POST /v1/keywords/rebuild. The rebuild runs in the
// background; the response only acknowledges scheduling. A rebuild arriving
// while one runs is acknowledged without starting a second one.
func (h *KeywordHandler) HandleRebuild(c echo.Context) error {
	if h.aggregate.RebuildInProgress() {
		return c.JSON(http.StatusAccepted, map[string]string{
			"status": "rebuild already in progress",
		})
	}

	go func() {
		if err := h.aggregate.RebuildAll(context.Background()); err != nil {
			h.logger.Error("manual rebuild failed", "error", err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{
		"status": "rebuild scheduled",
	})
}
