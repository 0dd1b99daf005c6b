// ABOUTME: Shared stubs and helpers for service-layer tests
// ABOUTME: In-memory repository and driver stands-ins, no real network or database
package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"keyword-aggregator/domain"
	"keyword-aggregator/driver"
	"keyword-aggregator/utils/keywordnorm"
)

func testLoggerService() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors in tests
	}))
}

func testNormalizer(t *testing.T) *keywordnorm.Normalizer {
	t.Helper()

	n, err := keywordnorm.New()
	require.NoError(t, err)

	return n
}

// stubArticleRepo is an in-memory ArticleRepository.
type stubArticleRepo struct {
	mu        sync.Mutex
	articles  map[string]*domain.Article
	upsertErr error
	findErr   error
	upserts   int
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *stubArticleRepo) UpsertArticles(ctx context.Context, articles []*domain.Article) error {
	// Mirror the real driver: a canceled context fails the write.
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.upserts++
	if r.upsertErr != nil {
		return r.upsertErr
	}

	for _, a := range articles {
		clone := *a
		r.articles[a.ExternalID] = &clone
	}

	return nil
}

func (r *stubArticleRepo) FindClassified(ctx context.Context) ([]*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}

	var out []*domain.Article
	for _, a := range r.articles {
		if a.ClassificationStatus {
			clone := *a
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *stubArticleRepo) FindByID(ctx context.Context, externalID string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.articles[externalID]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}

	clone := *a
	return &clone, nil
}

func (r *stubArticleRepo) stored(id string) *domain.Article {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.articles[id]
}

// stubSourceRepo resolves sources from a fixed map.
type stubSourceRepo struct {
	sources map[int64]*domain.Source
}

func (r *stubSourceRepo) FindByFeedID(ctx context.Context, feedID int64) (*domain.Source, error) {
	source, ok := r.sources[feedID]
	if !ok {
		return nil, domain.ErrSourceNotFound
	}

	return source, nil
}

// stubInference answers Generate from a queue of canned responses.
type stubInference struct {
	mu        sync.Mutex
	responses []func() (string, error)
	calls     int
}

func (s *stubInference) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	s.calls++

	if idx >= len(s.responses) {
		return "", errors.New("unexpected extra call")
	}

	return s.responses[idx]()
}

func respond(body string) func() (string, error) {
	return func() (string, error) { return body, nil }
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

// stubClassifier returns canned results keyed by title.
type stubClassifier struct {
	results map[string]domain.ClassificationResult
}

func (s *stubClassifier) Classify(ctx context.Context, title, snippet string, sourceBias domain.Bias) domain.ClassificationResult {
	if result, ok := s.results[title]; ok {
		result.Bias = sourceBias
		return result
	}

	return domain.FallbackResult(sourceBias)
}

// stubExtractor returns a fixed candidate list.
type stubExtractor struct {
	candidates []string
}

func (s *stubExtractor) Extract(title, snippet string) []string {
	return s.candidates
}

// stubFeedReader serves fixed entries and records what was marked read.
type stubFeedReader struct {
	entries     []driver.FeedEntry
	fetchErr    error
	markReadErr error
	markedRead  []int64
	calls       []string
}

func (s *stubFeedReader) FetchUnread(ctx context.Context) ([]driver.FeedEntry, error) {
	s.calls = append(s.calls, "fetch")
	return s.entries, s.fetchErr
}

func (s *stubFeedReader) MarkRead(ctx context.Context, entryIDs []int64) error {
	s.calls = append(s.calls, "mark_read")
	if s.markReadErr != nil {
		return s.markReadErr
	}
	s.markedRead = append(s.markedRead, entryIDs...)
	return nil
}

// recordingPusher captures pushed articles.
type recordingPusher struct {
	mu       sync.Mutex
	articles []domain.Article
	pushErr  error
}

func (p *recordingPusher) Push(ctx context.Context, article domain.Article) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pushErr != nil {
		return p.pushErr
	}
	p.articles = append(p.articles, article)
	return nil
}
