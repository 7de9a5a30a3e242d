// Package fetch retrieves page content for a target URL using a two-tier
// strategy: a lightweight HTTP client first, falling back to a headless
// Chrome render when the lightweight response is too short to be real
// content. Both tiers are retried with a growing backoff before the
// target is given up on.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Result is a single successful fetch: the raw body and how many retries
// it took to get it.
type Result struct {
	Body    string
	Retries int
}

// Fetcher retrieves page content, trying the lightweight tier before
// falling back to headless Chrome, with retries across both.
type Fetcher struct {
	http       *httpTier
	browser    *browserTier
	retryCount int
	throttle   *domainThrottle
}

// New builds a Fetcher from Config, disabling the headless tier entirely
// when DisableBrowser is set or no Chrome binary is configured.
func New(cfg Config) *Fetcher {
	timeout := cfg.timeout()

	f := &Fetcher{
		http:       newHTTPTier(timeout),
		retryCount: cfg.retryCount(),
		throttle:   newDomainThrottle(cfg.globalRPS(), cfg.domainRPS()),
	}

	if !cfg.DisableBrowser {
		f.browser = newBrowserTier(cfg.ChromeBinaryPath, timeout)
	}

	return f
}

// Fetch retrieves the target URL, prefixing a scheme when missing and
// retrying with a 2*attempt second backoff until RetryCount is exhausted.
// Every attempt is bounded by both a global and a per-domain rate limit so a
// batch run never exceeds a polite request rate against any one site.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	url := withScheme(rawURL)

	var lastErr error

	for attempt := 0; attempt <= f.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{Retries: attempt - 1}, ctx.Err()
			case <-time.After(time.Duration(2*attempt) * time.Second):
			}
		}

		if err := f.throttle.wait(ctx, url); err != nil {
			return Result{Retries: attempt}, fmt.Errorf("rate limiter wait: %w", err)
		}

		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return Result{Body: body, Retries: attempt}, nil
		}

		lastErr = err
	}

	// Retries counts every attempt after the first, so a failed row still
	// reports how many times it was retried.
	return Result{Retries: f.retryCount}, fmt.Errorf("%w: %s: %w", ErrAllRetriesExhausted, url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	body, err := f.http.fetch(ctx, url)
	if err == nil && len(body) > httpSuccessThreshold {
		return body, nil
	}

	if f.browser == nil {
		if err != nil {
			return "", err
		}

		return "", ErrInsufficientContent
	}

	rendered, browserErr := f.browser.fetch(ctx, url)
	if browserErr == nil {
		return rendered, nil
	}

	if err != nil {
		return "", fmt.Errorf("http: %w; browser: %w", err, browserErr)
	}

	return "", fmt.Errorf("http: %w; browser: %w", ErrInsufficientContent, browserErr)
}

func withScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	return "http://" + raw
}
