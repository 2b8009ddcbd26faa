// Package httpds reads a census input table over HTTP(S).
//
// Statistical offices and their mirrors publish the exports as plain files
// behind ordinary web servers that throttle and restart, so the GET is
// retried on transient failures: transport errors, 429 and 5xx. A
// Retry-After header is honored within MaxBackoff. Every other response is
// final and is mapped onto the pipeline's errors by Source.
package httpds

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Config tunes the fetch. Zero values take the defaults noted per field.
type Config struct {
	// Timeout bounds one attempt including the body read. Default 60s.
	Timeout time.Duration

	// Retries is the number of extra attempts after a transient failure.
	// Zero means a single attempt.
	Retries int

	// Backoff is the first wait between attempts, doubled each retry up to
	// MaxBackoff. Defaults 500ms and 10s.
	Backoff    time.Duration
	MaxBackoff time.Duration

	// Insecure skips TLS verification, for internal mirrors with private
	// certificates.
	Insecure bool

	// Transport replaces the default transport (tests).
	Transport http.RoundTripper
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	return c
}

// fetcher issues GETs for one Source.
type fetcher struct {
	cfg    Config
	client *http.Client

	// wait blocks for d or until ctx ends; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

func newFetcher(cfg Config) *fetcher {
	cfg = cfg.withDefaults()
	tr := cfg.Transport
	if tr == nil {
		tr = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure}, //nolint:gosec // opt-in via input.options.insecure
		}
	}
	return &fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout, Transport: tr},
		wait:   waitContext,
	}
}

// get returns the first non-transient response. The caller closes its body.
// When every attempt fails transiently the last failure is returned.
func (f *fetcher) get(ctx context.Context, url string) (*http.Response, int, error) {
	attempts := f.cfg.Retries + 1
	var lastErr error
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, attempt, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

		var delay time.Duration
		resp, err := f.client.Do(req)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, attempt, ctx.Err()
			}
			lastErr = err
		case transient(resp.StatusCode):
			delay = retryAfter(resp.Header.Get("Retry-After"))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("status %s", resp.Status)
		default:
			return resp, attempt, nil
		}

		if attempt >= attempts {
			return nil, attempt, lastErr
		}
		if delay <= 0 {
			delay = backoff(f.cfg.Backoff, attempt, f.cfg.MaxBackoff)
		}
		delay = min(delay, f.cfg.MaxBackoff)
		if err := f.wait(ctx, delay); err != nil {
			return nil, attempt, err
		}
	}
}

// transient reports whether a status is worth another attempt.
func transient(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// retryAfter reads the delay-seconds form of Retry-After; dates and garbage
// yield zero so the regular backoff applies.
func retryAfter(v string) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// backoff is base·2^(attempt-1) capped at max; attempt is 1-based.
func backoff(base time.Duration, attempt int, max time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt && d < max; i++ {
		d *= 2
	}
	return min(d, max)
}

func waitContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
