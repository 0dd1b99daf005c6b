// ABOUTME: This file implements a bounded retry mechanism with a fixed backoff schedule
// ABOUTME: Provides resilient error handling for external service calls
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy describes a bounded retry budget as data: MaxRetries additional
// attempts after the first, waiting Schedule[n] before retry n (the last
// schedule entry repeats if the budget outruns the schedule).
type Policy struct {
	MaxRetries int
	Schedule   []time.Duration
}

// DefaultPolicy matches the classification client's contract: two retries
// after the initial attempt, with increasing delays.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 2,
		Schedule:   []time.Duration{1500 * time.Millisecond, 2500 * time.Millisecond, 3500 * time.Millisecond},
	}
}

// ErrorClassifier reports whether an error is transient and worth retrying.
type ErrorClassifier func(error) bool

type Retrier struct {
	policy      Policy
	isRetryable ErrorClassifier
	logger      *slog.Logger
}

func NewRetrier(policy Policy, classifier ErrorClassifier, logger *slog.Logger) *Retrier {
	return &Retrier{
		policy:      policy,
		isRetryable: classifier,
		logger:      logger,
	}
}

// Do runs operation, retrying transient failures until the budget is spent.
// Non-retryable errors return immediately; the context cancels the backoff wait.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	attempts := 0
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		attempts++
		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				r.logger.Info("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		retryable := r.isRetryable != nil && r.isRetryable(lastErr)
		if !retryable || attempt == r.policy.MaxRetries {
			r.logger.Warn("operation failed permanently",
				"attempt", attempt+1,
				"retryable", retryable,
				"error", lastErr)
			break
		}

		delay := r.delayFor(attempt)
		r.logger.Info("retry backoff wait",
			"attempt", attempt+1,
			"retry_delay_ms", delay.Milliseconds(),
			"error", lastErr)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

func (r *Retrier) delayFor(attempt int) time.Duration {
	if len(r.policy.Schedule) == 0 {
		return 0
	}
	if attempt >= len(r.policy.Schedule) {
		return r.policy.Schedule[len(r.policy.Schedule)-1]
	}
	return r.policy.Schedule[attempt]
}
