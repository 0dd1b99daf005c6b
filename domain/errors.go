// ABOUTME: Domain-level sentinel errors for the keyword-aggregator service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Article-related errors
var (
	// ErrArticleNotFound indicates the requested article does not exist
	ErrArticleNotFound = errors.New("article not found")

	// ErrSourceNotFound indicates no source descriptor is configured for an
	// entry's feed id. The entry is skipped (not classified, not persisted).
	ErrSourceNotFound = errors.New("source descriptor not found for feed")
)

// External service errors
var (
	// ErrMalformedResponse indicates the inference service answered with a
	// payload that does not decode to the expected keyword shape. This is a
	// deterministic failure and is never retried.
	ErrMalformedResponse = errors.New("malformed inference response")
)

// Queue-related errors
var (
	// ErrQueueClosed indicates a push after the queue began draining
	ErrQueueClosed = errors.New("classification queue is closed")
)
