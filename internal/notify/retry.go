package notify

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy is an exponential-backoff retry budget for flaky channels:
// attempt n sleeps Base * 2^n before trying again.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
}

// DefaultRetryPolicy retries three times with delays of 2s then 4s.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Base: time.Second}

// Backoff returns the delay after the given 1-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.Base * time.Duration(1<<attempt)
}

// Retry runs fn until it succeeds, the attempt budget is exhausted, or ctx is
// cancelled. It returns the number of attempts made alongside the last error;
// an exhausted budget is always observable to the caller, never swallowed.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) (int, error) {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		if lastErr = fn(ctx); lastErr == nil {
			return attempt, nil
		}

		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return policy.MaxAttempts, fmt.Errorf("notify: %d attempts exhausted: %w", policy.MaxAttempts, lastErr)
}
