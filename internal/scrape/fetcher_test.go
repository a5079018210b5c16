package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher() *HTTPFetcher {
	policy := DefaultRetryPolicy()
	policy.sleep = func(context.Context, time.Duration) error { return nil }
	return NewHTTPFetcher(5*time.Second, policy)
}

func TestFetchRecoversFromTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

func TestFetchDoesNotRetryPermanentErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v, want wrapped 404 StatusError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if _, err := newTestFetcher().Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch returned %v", err)
	}
	if ua != browserUserAgent {
		t.Errorf("User-Agent = %q", ua)
	}
}
