package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher fetches HTML listing pages through a colly collector, which
// gives the HTML sources per-domain politeness delays and charset detection
// on top of the same bounded retry/timeout guarantees as HTTPFetcher.
type CollyFetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	DomainDelay    time.Duration
	MaxBodySize    int
}

func NewCollyFetcher(timeout time.Duration, maxRetries int) *CollyFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &CollyFetcher{
		UserAgent:      browserUserAgent,
		MaxRetries:     maxRetries,
		RequestTimeout: timeout,
		DomainDelay:    time.Second,
		MaxBodySize:    maxBodyBytes,
	}
}

func (f *CollyFetcher) buildCollector(host string) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.AllowedDomains(host),
		colly.DetectCharset(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       f.DomainDelay,
	})
	c.SetRequestTimeout(f.RequestTimeout)
	return c
}

// Fetch implements Fetcher.
func (f *CollyFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}

	c := f.buildCollector(parsed.Host)

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		buf := make([]byte, len(r.Body))
		copy(buf, r.Body)
		body = buf
	})

	c.OnError(func(r *colly.Response, err error) {
		retries := 0
		if v := r.Request.Ctx.GetAny("retries"); v != nil {
			retries = v.(int)
		}
		if retries < f.MaxRetries && ctx.Err() == nil {
			r.Request.Ctx.Put("retries", retries+1)
			time.Sleep(time.Duration(retries+1) * time.Second)
			r.Request.Retry()
			return
		}
		if r.StatusCode > 0 {
			fetchErr = &StatusError{URL: targetURL, StatusCode: r.StatusCode}
		} else {
			fetchErr = err
		}
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", targetURL, err)
	}
	c.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", targetURL, fetchErr)
	}
	if body == nil {
		return nil, fmt.Errorf("fetch %s: empty response", targetURL)
	}
	return body, nil
}
