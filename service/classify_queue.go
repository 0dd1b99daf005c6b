// ABOUTME: This file implements the concurrency-bounded classification queue
// ABOUTME: Groups articles into debounced batches processed by a fixed worker pool
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"keyword-aggregator/config"
	"keyword-aggregator/domain"
	"keyword-aggregator/repository"
	"keyword-aggregator/utils/keywordnorm"
)

// ClassificationQueue accepts articles, classifies them in bounded batches
// and ties the results to persistence and the aggregation cache.
//
// Batch size, debounce window, concurrency ceiling and batch retry budget
// are first-class parameters (config.QueueConfig), not library defaults.
type ClassificationQueue struct {
	cfg config.QueueConfig

	classifier ClassifierService
	extractor  KeywordExtractor
	normalizer *keywordnorm.Normalizer
	articles   repository.ArticleRepository
	aggregate  *AggregationCache
	logger     *slog.Logger

	in      chan domain.Article
	batches chan []domain.Article

	workersWG   sync.WaitGroup
	collectorWG sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewClassificationQueue(
	cfg config.QueueConfig,
	classifier ClassifierService,
	extractor KeywordExtractor,
	normalizer *keywordnorm.Normalizer,
	articles repository.ArticleRepository,
	aggregate *AggregationCache,
	logger *slog.Logger,
) *ClassificationQueue {
	return &ClassificationQueue{
		cfg:        cfg,
		classifier: classifier,
		extractor:  extractor,
		normalizer: normalizer,
		articles:   articles,
		aggregate:  aggregate,
		logger:     logger,
		// The inbound buffer is the backpressure bound: once workers and the
		// buffer are full, Push blocks until capacity frees up.
		in:      make(chan domain.Article, cfg.BatchSize*cfg.Concurrency),
		batches: make(chan []domain.Article, cfg.Concurrency),
	}
}

// Start launches the batch collector and the worker pool. Dispatched batches
// run to completion even after ctx is canceled: Close is the drain signal,
// and a shutdown-canceled context must not fail the persistence of batches
// already in flight.
func (q *ClassificationQueue) Start(ctx context.Context) {
	q.collectorWG.Add(1)
	go q.collect(ctx)

	batchCtx := context.WithoutCancel(ctx)
	for i := 0; i < q.cfg.Concurrency; i++ {
		q.workersWG.Add(1)
		go q.worker(batchCtx, i)
	}

	q.logger.Info("classification queue started",
		"batch_size", q.cfg.BatchSize,
		"batch_debounce", q.cfg.BatchDebounce,
		"concurrency", q.cfg.Concurrency)
}

// Push enqueues one article. It blocks while the queue is at capacity and
// returns domain.ErrQueueClosed once draining has begun.
func (q *ClassificationQueue) Push(ctx context.Context, article domain.Article) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return domain.ErrQueueClosed
	}

	select {
	case q.in <- article:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake and drains: buffered articles are flushed into batches
// and every dispatched batch runs to completion before Close returns.
func (q *ClassificationQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.in)
	q.mu.Unlock()

	q.collectorWG.Wait()
	close(q.batches)
	q.workersWG.Wait()

	q.logger.Info("classification queue drained")
}

// collect groups inbound articles into batches, flushing on size or on the
// debounce window elapsing since the first article of the batch.
func (q *ClassificationQueue) collect(ctx context.Context) {
	defer q.collectorWG.Done()

	var (
		batch   []domain.Article
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		q.batches <- batch
		batch = nil
		if timer != nil {
			timer.Stop()
		}
		timerCh = nil
	}

	for {
		select {
		case article, ok := <-q.in:
			if !ok {
				flush()
				return
			}

			batch = append(batch, article)

			if len(batch) >= q.cfg.BatchSize {
				flush()
				continue
			}

			if timerCh == nil {
				timer = time.NewTimer(q.cfg.BatchDebounce)
				timerCh = timer.C
			}

		case <-timerCh:
			flush()
		}
	}
}

func (q *ClassificationQueue) worker(ctx context.Context, id int) {
	defer q.workersWG.Done()

	for batch := range q.batches {
		q.runBatch(ctx, id, batch)
	}
}

// runBatch processes one batch with the batch-level retry budget. A batch
// that exhausts its retries is reported failed; its articles keep their
// prior classification status and stay eligible for manual reprocessing.
func (q *ClassificationQueue) runBatch(ctx context.Context, workerID int, batch []domain.Article) {
	batchID := uuid.New().String()

	var err error
	for attempt := 0; attempt <= q.cfg.BatchRetries; attempt++ {
		if attempt > 0 {
			q.logger.Warn("retrying batch",
				"batch_id", batchID,
				"attempt", attempt+1,
				"error", err)
			time.Sleep(q.cfg.RetryDelay)
		}

		err = q.processBatch(ctx, batch)
		if err == nil {
			return
		}
	}

	q.logger.Error("batch permanently failed",
		"batch_id", batchID,
		"worker", workerID,
		"articles", len(batch),
		"error", err)
}

// processBatch classifies every article in the batch, persists the batch and
// merges it into the aggregate. Panics from downstream code are contained
// and surface as batch errors.
func (q *ClassificationQueue) processBatch(ctx context.Context, batch []domain.Article) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch processing panicked: %v", r)
		}
	}()

	processed := make([]*domain.Article, 0, len(batch))
	results := make([]domain.ClassificationResult, 0, len(batch))

	for i := range batch {
		article := batch[i]
		article.ClassificationAttempts++

		result := q.classifyOne(ctx, &article)

		article.Keywords = result.Keywords
		article.ClassificationStatus = result.Success

		processed = append(processed, &article)
		results = append(results, result)
	}

	// Keyed upsert by article id; a failure here is a batch failure and goes
	// through the batch retry budget, never past it.
	if err := q.articles.UpsertArticles(ctx, processed); err != nil {
		return fmt.Errorf("failed to persist batch: %w", err)
	}

	for i, article := range processed {
		q.aggregate.MergeOne(article, results[i])
	}

	return nil
}

// classifyOne runs the client, falls back to heuristic extraction when the
// service found nothing, and normalizes the final keyword set.
func (q *ClassificationQueue) classifyOne(ctx context.Context, article *domain.Article) domain.ClassificationResult {
	result := q.classifier.Classify(ctx, article.Title, article.ContentSnippet, article.Source.Bias)

	candidates := result.Keywords
	success := result.Success && len(result.Keywords) > 0

	// "Service responded but found nothing interesting" is not retried;
	// the local extractor fills the gap and the article is marked degraded.
	if !success {
		candidates = q.extractor.Extract(article.Title, article.ContentSnippet)
	}

	return domain.ClassificationResult{
		Bias:     result.Bias,
		Keywords: q.normalizeAll(candidates),
		Success:  success,
	}
}

// normalizeAll validates every candidate and removes duplicates that
// normalization produced.
func (q *ClassificationQueue) normalizeAll(candidates []string) []string {
	keywords := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, candidate := range candidates {
		normalized, ok := q.normalizer.Normalize(candidate)
		if !ok {
			continue
		}

		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true

		keywords = append(keywords, normalized)
	}

	return keywords
}
