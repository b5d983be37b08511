// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/zerosearch/internal/httputil"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// serperAPIURL is the Serper Google search endpoint. Declared as a var so
// tests can substitute an httptest server.
var serperAPIURL = "https://google.serper.dev/search"

// SerperProvider queries Google results through the Serper API.
type SerperProvider struct {
	APIKey    string
	UserAgent string
	Retrier   *httputil.Retrier
}

// Name returns the provider identifier.
func (p *SerperProvider) Name() string { return ProviderSerper }

// Find posts the query to Serper and returns its organic results.
func (p *SerperProvider) Find(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	limit = clampLimit(limit)

	body, err := json.Marshal(serperRequest{Q: query, Num: limit})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := orDefault(p.Retrier).Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Serper API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(sr.Organic))
	for _, r := range sr.Organic {
		candidates = append(candidates, types.Candidate{URL: r.Link, Title: r.Title})
	}
	return truncate(candidates, limit), nil
}

// Serper API JSON structures.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

type serperOrganic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}
