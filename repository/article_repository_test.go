package repository

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"keyword-aggregator/domain"
)

func testLoggerRepo() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors in tests
	}))
}

func TestArticleRepository_InterfaceCompliance(t *testing.T) {
	repo := NewArticleRepository(nil, testLoggerRepo())

	var _ ArticleRepository = repo
	assert.NotNil(t, repo)
}

func TestArticleRepository_UpsertArticles(t *testing.T) {
	t.Run("should handle nil database gracefully", func(t *testing.T) {
		repo := NewArticleRepository(nil, testLoggerRepo())

		err := repo.UpsertArticles(context.Background(), []*domain.Article{{ExternalID: "1"}})
		assert.Error(t, err)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo := NewArticleRepository(nil, testLoggerRepo())

		err := repo.UpsertArticles(context.Background(), nil)
		assert.NoError(t, err)
	})
}

func TestArticleRepository_FindClassified(t *testing.T) {
	t.Run("should handle nil database gracefully", func(t *testing.T) {
		repo := NewArticleRepository(nil, testLoggerRepo())

		articles, err := repo.FindClassified(context.Background())
		assert.Error(t, err)
		assert.Nil(t, articles)
	})
}

func TestArticleRepository_FindByID(t *testing.T) {
	t.Run("should handle nil database gracefully", func(t *testing.T) {
		repo := NewArticleRepository(nil, testLoggerRepo())

		article, err := repo.FindByID(context.Background(), "missing")
		assert.Error(t, err)
		assert.Nil(t, article)
	})
}

func TestSourceRepository_FindByFeedID(t *testing.T) {
	t.Run("should handle nil database gracefully", func(t *testing.T) {
		repo := NewSourceRepository(nil, testLoggerRepo())

		source, err := repo.FindByFeedID(context.Background(), 42)
		assert.Error(t, err)
		assert.Nil(t, source)
	})
}
