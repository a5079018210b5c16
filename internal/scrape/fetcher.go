package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 10 * 1024 * 1024

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// RateLimited reports whether the upstream is throttling or blocking us.
// Both cases get the longer backoff before we give up on the source.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusForbidden
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusForbidden,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// HTTPFetcher is the shared bounded-retry, timeout-enforcing transport used
// by the JSON and feed scrapers. Retries are driven by the injected policy.
type HTTPFetcher struct {
	client *http.Client
	policy *RetryPolicy
	accept string
}

func NewHTTPFetcher(timeout time.Duration, policy *RetryPolicy) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		policy: policy,
		accept: "application/json, application/rss+xml, application/xml, text/html;q=0.9, */*;q=0.8",
	}
}

// Fetch GETs url, retrying per the policy, and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; ; attempt++ {
		body, err := f.once(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !f.policy.ShouldRetry(err, attempt) {
			break
		}
		if waitErr := f.policy.Wait(ctx, err, attempt); waitErr != nil {
			return nil, waitErr
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *HTTPFetcher) once(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", f.accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
