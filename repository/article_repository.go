package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"keyword-aggregator/domain"
)

// ArticleRepository implementation.
type articleRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *pgxpool.Pool, logger *slog.Logger) ArticleRepository {
	return &articleRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertArticles performs a keyed upsert by external id for a whole batch.
func (r *articleRepository) UpsertArticles(ctx context.Context, articles []*domain.Article) error {
	if r.db == nil {
		return fmt.Errorf("failed to upsert articles: database connection is nil")
	}

	if len(articles) == 0 {
		return nil
	}

	query := `
		INSERT INTO articles (
			external_id, title, url, content_snippet, published_at,
			source_name, source_category, source_bias,
			keywords, classification_status, classification_attempts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			content_snippet = EXCLUDED.content_snippet,
			keywords = EXCLUDED.keywords,
			classification_status = EXCLUDED.classification_status,
			classification_attempts = EXCLUDED.classification_attempts
	`

	batch := &pgx.Batch{}
	for _, article := range articles {
		batch.Queue(query,
			article.ExternalID,
			article.Title,
			article.URL,
			article.ContentSnippet,
			article.PublishedAt,
			article.Source.Name,
			article.Source.Category,
			string(article.Source.Bias),
			article.Keywords,
			article.ClassificationStatus,
			article.ClassificationAttempts,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if err := results.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close batch results", "error", err)
		}
	}()

	for range articles {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert article batch: %w", err)
		}
	}

	r.logger.InfoContext(ctx, "upserted article batch", "count", len(articles))

	return nil
}

// FindClassified streams every successfully classified article into memory.
func (r *articleRepository) FindClassified(ctx context.Context) ([]*domain.Article, error) {
	if r.db == nil {
		return nil, fmt.Errorf("failed to find classified articles: database connection is nil")
	}

	query := `
		SELECT external_id, title, url, content_snippet, published_at,
		       source_name, source_category, source_bias,
		       keywords, classification_status, classification_attempts, created_at
		FROM articles
		WHERE classification_status = true
		ORDER BY published_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query classified articles: %w", err)
	}
	defer rows.Close()

	var articles []*domain.Article

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classified articles: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) FindByID(ctx context.Context, externalID string) (*domain.Article, error) {
	if r.db == nil {
		return nil, fmt.Errorf("failed to find article: database connection is nil")
	}

	query := `
		SELECT external_id, title, url, content_snippet, published_at,
		       source_name, source_category, source_bias,
		       keywords, classification_status, classification_attempts, created_at
		FROM articles
		WHERE external_id = $1
	`

	rows, err := r.db.Query(ctx, query, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read article: %w", err)
		}
		return nil, domain.ErrArticleNotFound
	}

	return scanArticle(rows)
}

func scanArticle(rows pgx.Rows) (*domain.Article, error) {
	var (
		article domain.Article
		bias    string
	)

	err := rows.Scan(
		&article.ExternalID,
		&article.Title,
		&article.URL,
		&article.ContentSnippet,
		&article.PublishedAt,
		&article.Source.Name,
		&article.Source.Category,
		&bias,
		&article.Keywords,
		&article.ClassificationStatus,
		&article.ClassificationAttempts,
		&article.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to scan article row: %w", err)
	}

	article.Source.Bias = domain.Bias(bias)

	return &article, nil
}
