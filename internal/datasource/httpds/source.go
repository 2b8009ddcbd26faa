package httpds

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"census/internal/schema"
)

// IsURL reports whether path names an http or https resource.
func IsURL(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Source is a datasource.Source for a census export published at a URL.
type Source struct {
	url string
	f   *fetcher
}

// NewSource returns a Source for url.
func NewSource(url string, cfg Config) *Source {
	return &Source{url: url, f: newFetcher(cfg)}
}

// Path returns the bound URL.
func (s *Source) Path() string { return s.url }

// Open fetches the export and returns its body. A 404 or 410 means the
// table is not published there and maps to *schema.MissingInputError, the
// same as an absent local file. HTML answers (portal login or error pages
// served with 200) and every other non-2xx status are errors, as is giving
// up on transient failures.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, attempts, err := s.f.get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: gave up after %d attempt(s): %w", s.url, attempts, err)
	}
	if attempts > 1 {
		log.Printf("load: url=%s attempts=%d status=%d", s.url, attempts, resp.StatusCode)
	}

	switch code := resp.StatusCode; {
	case code == http.StatusNotFound || code == http.StatusGone:
		_ = resp.Body.Close()
		return nil, &schema.MissingInputError{Path: s.url, Err: os.ErrNotExist}
	case code < 200 || code > 299:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.url, resp.Status)
	case strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "text/html"):
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: got an HTML page, not a CSV table", s.url)
	}
	return resp.Body, nil
}
