package scrape

import (
	"context"
	"errors"
	"net"
	"time"
)

// RetryPolicy decides whether a failed fetch attempt is worth repeating and
// how long to wait before the next try. One policy instance is shared by the
// HTTP fetcher; the sleep function is injectable so tests run with a fake
// clock.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration // base delay when the upstream answered 429/403

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the pass-wide budget: three attempts with
// 1s/2s/4s backoff, stretched when the upstream is rate limiting.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		MaxDelay:       30 * time.Second,
		RateLimitDelay: 10 * time.Second,
	}
}

// ShouldRetry reports whether another attempt should be made after err.
// attempt is 1-based (the attempt that just failed).
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.MaxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// DNS failures, connection refused and friends arrive as *url.Error
	// wrapping *net.OpError; treat any remaining transport error as retryable.
	return true
}

// Backoff returns how long to wait before the attempt following attempt
// (1-based). Rate-limited responses get the longer base delay.
func (p *RetryPolicy) Backoff(err error, attempt int) time.Duration {
	base := p.BaseDelay
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RateLimited() {
		base = p.RateLimitDelay
	}
	d := base << uint(attempt-1)
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Wait sleeps for the computed backoff, honoring context cancellation.
func (p *RetryPolicy) Wait(ctx context.Context, err error, attempt int) error {
	d := p.Backoff(err, attempt)
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
