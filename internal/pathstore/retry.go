package pathstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// MaxRetries is how many times a transient failure is retried.
const MaxRetries = 3

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, e.Message)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Backoff returns a duration for attempt n (0-indexed) with jitter, doubling
// from unit and capped at 30 units.
func Backoff(attempt int, unit time.Duration) time.Duration {
	base := time.Duration(1<<uint(attempt)) * unit
	if base > 30*unit {
		base = 30 * unit
	}
	if base < 2 {
		return base
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// withRetry runs op until it succeeds, fails permanently, exhausts
// MaxRetries, or ctx ends.
func (c *Client) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || !IsRetryable(err) || attempt >= MaxRetries {
			return err
		}
		t := time.NewTimer(Backoff(attempt, c.retryUnit))
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-t.C:
		}
	}
}
