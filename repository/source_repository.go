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

// SourceRepository implementation.
type sourceRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *pgxpool.Pool, logger *slog.Logger) SourceRepository {
	return &sourceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sourceRepository) FindByFeedID(ctx context.Context, feedID int64) (*domain.Source, error) {
	if r.db == nil {
		return nil, fmt.Errorf("failed to find source: database connection is nil")
	}

	query := `SELECT name, category, bias FROM sources WHERE feed_id = $1`

	var (
		source domain.Source
		bias   string
	)

	err := r.db.QueryRow(ctx, query, feedID).Scan(&source.Name, &source.Category, &bias)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to query source for feed %d: %w", feedID, err)
	}

	source.Bias = domain.Bias(bias)
	if source.Bias == "" {
		source.Bias = domain.BiasUnknown
	}

	return &source, nil
}
