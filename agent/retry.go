package agent

import (
	"context"
	"time"
)

// SleepFunc waits for the given duration or until the context is done.
// Injectable so tests can observe backoff without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy wraps an operation with linear-multiplier backoff: the delay
// before attempt n+1 is BaseDelay multiplied by n, clamped to MaxDelay. There
// is no jitter; the arithmetic is deterministic so callers can budget latency.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts. Values below 1 mean a
	// single attempt with no retries.
	MaxRetries int
	// BaseDelay is the delay before the second attempt; defaults to 1s.
	BaseDelay time.Duration
	// MaxDelay clamps individual backoff waits so sustained failure cannot
	// produce unbounded delays; defaults to 30s.
	MaxDelay time.Duration
	// ShouldRetry filters which errors are retried. Nil retries everything
	// except context cancellation.
	ShouldRetry func(error) bool
	// Sleep overrides the backoff wait; defaults to a timer respecting ctx.
	Sleep SleepFunc
}

// DefaultRetryPolicy returns the policy used when a profile does not specify
// its own: three attempts, one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3}
}

// Do invokes op, retrying failures with increasing delays. On exhaustion it
// returns the last error; translating that into a Result is the caller's job.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if p.ShouldRetry != nil && !p.ShouldRetry(lastErr) {
			break
		}
		delay := base * time.Duration(attempt)
		if delay > maxDelay {
			delay = maxDelay
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}
