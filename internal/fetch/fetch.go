// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw page documents for the search stage. Two
// fetchers are provided: a plain HTTP client and a headless Chrome driven
// through go-rod for pages that only render with JavaScript.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Fetcher names accepted by New.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// ErrUnknownFetcher is returned by New for an unsupported fetcher name.
var ErrUnknownFetcher = errors.New("unknown fetcher")

// acceptHeader is sent by HTTPFetcher so servers return HTML rather than a
// negotiated API representation.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Fetcher retrieves the document at a URL. Close releases any process or
// connection the fetcher holds.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// StatusError reports a page that answered with an HTTP error status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

// HTTPFetcher downloads pages with a plain GET request.
type HTTPFetcher struct {
	Client *http.Client
	Config types.FetchConfig
}

// NewHTTPFetcher returns an HTTPFetcher with defaults applied to cfg.
func NewHTTPFetcher(cfg types.FetchConfig) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{}, Config: withDefaults(cfg)}
}

// Name returns the fetcher identifier.
func (f *HTTPFetcher) Name() string { return FetcherHTTP }

// Fetch GETs url within the configured timeout and returns at most
// MaxBytes of the body. Any status of 400 or above is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	cfg := withDefaults(f.Config)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// Close is a no-op; idle connections belong to the client.
func (f *HTTPFetcher) Close() error { return nil }

// New returns the fetcher selected by cfg.Fetcher. An empty name selects
// the HTTP fetcher.
func New(cfg types.FetchConfig, logger *zap.Logger) (Fetcher, error) {
	switch cfg.Fetcher {
	case "", FetcherHTTP:
		return NewHTTPFetcher(cfg), nil
	case FetcherBrowser:
		return NewBrowserFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w %q: use %s or %s", ErrUnknownFetcher, cfg.Fetcher, FetcherHTTP, FetcherBrowser)
	}
}

func withDefaults(cfg types.FetchConfig) types.FetchConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = types.DefaultMaxBytes
	}
	return cfg
}
