// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/zerosearch/internal/extract"
	"github.com/pdiddy/zerosearch/internal/httputil"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// braveAPIURL is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIURL = "https://api.search.brave.com/res/v1/web/search"

// BraveProvider queries the Brave Search API.
type BraveProvider struct {
	APIKey    string
	UserAgent string
	Retrier   *httputil.Retrier
}

// Name returns the provider identifier.
func (p *BraveProvider) Name() string { return ProviderBrave }

// Find queries Brave and returns its web results. Brave marks matched terms
// in titles with <strong>; the markup is removed.
func (p *BraveProvider) Find(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	limit = clampLimit(limit)

	params := url.Values{
		"q":          {query},
		"count":      {strconv.Itoa(limit)},
		"safesearch": {"off"},
		"text_deep":  {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", p.APIKey)
	req.Header.Set("Accept", "application/json")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := orDefault(p.Retrier).Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Brave API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		candidates = append(candidates, types.Candidate{URL: r.URL, Title: extract.FragmentText(r.Title)})
	}
	return truncate(candidates, limit), nil
}

// Brave API JSON structures.
type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
