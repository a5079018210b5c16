package scrape

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"nil error", nil, 1, false},
		{"attempts exhausted", &StatusError{StatusCode: 500}, 3, false},
		{"server error", &StatusError{StatusCode: 500}, 1, true},
		{"rate limited", &StatusError{StatusCode: 429}, 1, true},
		{"forbidden treated as throttling", &StatusError{StatusCode: 403}, 2, true},
		{"not found is permanent", &StatusError{StatusCode: 404}, 1, false},
		{"bad request is permanent", &StatusError{StatusCode: 400}, 1, false},
		{"context canceled", context.Canceled, 1, false},
		{"deadline exceeded", context.DeadlineExceeded, 1, false},
		{"generic transport error", errors.New("connection refused"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ShouldRetry(tt.err, tt.attempt); got != tt.want {
				t.Errorf("ShouldRetry(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 5 * time.Second, RateLimitDelay: 10 * time.Second}
	err := &StatusError{StatusCode: 500}

	if d := p.Backoff(err, 1); d != time.Second {
		t.Errorf("attempt 1 backoff = %v, want 1s", d)
	}
	if d := p.Backoff(err, 2); d != 2*time.Second {
		t.Errorf("attempt 2 backoff = %v, want 2s", d)
	}
	if d := p.Backoff(err, 4); d != 5*time.Second {
		t.Errorf("attempt 4 backoff = %v, want capped 5s", d)
	}
}

func TestBackoffRateLimitedWaitsLonger(t *testing.T) {
	p := DefaultRetryPolicy()
	plain := p.Backoff(&StatusError{StatusCode: 500}, 1)
	limited := p.Backoff(&StatusError{StatusCode: 429}, 1)
	if limited <= plain {
		t.Errorf("rate-limited backoff %v should exceed plain backoff %v", limited, plain)
	}
}

func TestWaitUsesInjectedSleep(t *testing.T) {
	var slept []time.Duration
	p := DefaultRetryPolicy()
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	err := &StatusError{StatusCode: 503}
	if werr := p.Wait(context.Background(), err, 1); werr != nil {
		t.Fatalf("Wait returned %v", werr)
	}
	if werr := p.Wait(context.Background(), err, 2); werr != nil {
		t.Fatalf("Wait returned %v", werr)
	}
	if len(slept) != 2 || slept[1] != 2*slept[0] {
		t.Errorf("recorded sleeps = %v, want doubling sequence", slept)
	}
}
