// ABOUTME: This file classifies errors for retry decisions
// ABOUTME: Distinguishes between transient and permanent failures of the inference service
package service

import (
	"context"
	"errors"
	"net"
	"syscall"

	"keyword-aggregator/driver"
)

// IsRetryableError determines if an error should trigger a retry.
// Transient network failures and server error statuses are retryable;
// parse failures are deterministic and never are.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// Timeouts count as transient.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// errors.Is walks the url.Error -> net.OpError -> os.SyscallError chain
	// the http client produces for dial and read failures.
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var httpErr *driver.HTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTPStatus(httpErr.StatusCode)
	}

	// Anything else (including malformed-response errors) is permanent.
	return false
}

func isRetryableHTTPStatus(status int) bool {
	switch {
	case status >= 500 && status <= 599:
		return true
	case status == 408: // Request Timeout
		return true
	case status == 429: // Too Many Requests
		return true
	default:
		return false
	}
}
