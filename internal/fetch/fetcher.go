// Package fetch performs conditional HTTP retrieval of snow-report pages
// with bounded retry/backoff and Last-Modified validation caching.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultUserAgent = "snowday/1.0 (+https://github.com/powderline/snowday)"

// StatusError reports a non-2xx, non-304 response. It is terminal: HTTP
// error statuses are never retried.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// Result is the outcome of one successful fetch. When NotModified is set the
// body is empty and the caller should serve the cached record instead.
type Result struct {
	StatusCode      int
	Body            []byte
	ValidationToken string
	NotModified     bool
}

// Fetcher performs HTTP GETs with conditional headers from a ValidationCache
// and exponential backoff on transient transport failures. It never mutates
// the cache itself; callers store the returned token after a successful
// parse.
type Fetcher struct {
	client      *http.Client
	cache       *ValidationCache
	logger      *slog.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// NewFetcher creates a Fetcher. A nil client gets a 10 second timeout
// default; maxAttempts and baseDelay fall back to 3 and 500ms when zero.
func NewFetcher(client *http.Client, cache *ValidationCache, logger *slog.Logger, maxAttempts int, baseDelay time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Fetcher{
		client:      client,
		cache:       cache,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// Fetch GETs a URL, attaching the cached validation token when one is known.
// Transient transport failures are retried up to maxAttempts with
// baseDelay * 2^(attempt-1) backoff; the final failure propagates. A 304
// response is a terminal success, not a retry condition. Non-2xx statuses
// return a *StatusError immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Result, error) {
	headers := f.cache.ConditionalHeaders(url)

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		res, err := f.doOnce(ctx, url, headers)
		if err == nil {
			return res, nil
		}
		if _, terminal := err.(*StatusError); terminal {
			return Result{}, err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt == f.maxAttempts {
			break
		}
		delay := f.baseDelay * time.Duration(1<<(attempt-1))
		f.logger.Warn("fetch attempt failed, backing off",
			"url", url, "attempt", attempt, "delay", delay, "error", err)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return Result{}, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) doOnce(ctx context.Context, url string, headers map[string]string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return Result{StatusCode: resp.StatusCode, NotModified: true}, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return Result{}, fmt.Errorf("read body: %w", err)
		}
		return Result{
			StatusCode:      resp.StatusCode,
			Body:            body,
			ValidationToken: resp.Header.Get("Last-Modified"),
		}, nil
	default:
		return Result{}, &StatusError{URL: url, Code: resp.StatusCode}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
