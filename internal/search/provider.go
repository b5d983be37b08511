// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web search APIs and returns ranked candidate pages.
// Each API is a Provider; New selects one by name.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/internal/httputil"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// Provider names accepted by New.
const (
	ProviderSerper = "serper"
	ProviderBrave  = "brave"
)

var (
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown search provider")

	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("search provider API key is not set")
)

// Provider searches one web search API. Candidates are returned in the
// provider's ranking order, at most limit of them.
type Provider interface {
	Name() string
	Find(ctx context.Context, query string, limit int) ([]types.Candidate, error)
}

// New returns the provider selected by cfg.Provider. An empty name selects
// Serper. Requests to the API are retried on HTTP 429.
func New(cfg types.SearchConfig, client *http.Client, logger *zap.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		name := cfg.Provider
		if name == "" {
			name = ProviderSerper
		}
		return nil, fmt.Errorf("%w: configure the %s key", ErrMissingAPIKey, name)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	retrier := &httputil.Retrier{Client: client, MaxRetries: cfg.MaxRetries, Logger: logger}

	switch cfg.Provider {
	case "", ProviderSerper:
		return &SerperProvider{APIKey: cfg.APIKey, UserAgent: cfg.UserAgent, Retrier: retrier}, nil
	case ProviderBrave:
		return &BraveProvider{APIKey: cfg.APIKey, UserAgent: cfg.UserAgent, Retrier: retrier}, nil
	default:
		return nil, fmt.Errorf("%w %q: use %s or %s", ErrUnknownProvider, cfg.Provider, ProviderSerper, ProviderBrave)
	}
}

// clampLimit applies the default result count.
func clampLimit(limit int) int {
	if limit <= 0 {
		return types.DefaultMaxResults
	}
	return limit
}

// truncate keeps at most limit candidates.
func truncate(c []types.Candidate, limit int) []types.Candidate {
	if len(c) > limit {
		return c[:limit]
	}
	return c
}

func orDefault(r *httputil.Retrier) *httputil.Retrier {
	if r == nil {
		return &httputil.Retrier{}
	}
	return r
}
