// Package http fetches species info pages over plain HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/antmaster"
)

// DefaultFetchTimeout is the default timeout for one page request.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps the size of a fetched page.
const DefaultMaxBodyBytes = 5 << 20

// DefaultUserAgent identifies the enrichment crawler to wiki hosts.
const DefaultUserAgent = "antmaster/1.0 (+species catalog enrichment)"

var _ antmaster.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves info pages with net/http. Pages are served as static
// MediaWiki HTML, so no script execution is needed.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch returns the body of url. A 404 or 410 is reported as ENOTFOUND so
// callers can stop retrying; other non-200 statuses are EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", antmaster.Errorf(antmaster.EINVALID, "bad url %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return "", antmaster.Errorf(antmaster.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}
