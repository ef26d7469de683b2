package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	attempts, err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, Base: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	start := time.Now()
	attempts, err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, Base: 5 * time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	// Backoff 2x base after attempt 1, 4x base after attempt 2.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRetryExhaustsBudget(t *testing.T) {
	calls := 0
	sentinel := errors.New("still down")
	attempts, err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, Base: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return sentinel
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, RetryPolicy{MaxAttempts: 5, Base: time.Minute}, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffDoubles(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Base: time.Second}
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
	assert.Equal(t, 8*time.Second, p.Backoff(3))
}
