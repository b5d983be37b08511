// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/zerosearch/internal/httputil"
	"github.com/pdiddy/zerosearch/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// withServer points url at an httptest server for the duration of the test.
func withServer(t *testing.T, url *string, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := *url
	*url = ts.URL
	t.Cleanup(func() {
		*url = old
		ts.Close()
	})
	return ts
}

func newProvider(t *testing.T, ts *httptest.Server, name string) Provider {
	t.Helper()
	p, err := New(types.SearchConfig{Provider: name, APIKey: "test-key", MaxRetries: 2}, ts.Client(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// --- Serper ---

func TestSerperRequestShape(t *testing.T) {
	var method, key, contentType string
	var body serperRequest
	ts := withServer(t, &serperAPIURL, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		key = r.Header.Get("X-API-KEY")
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		fmt.Fprint(w, `{"organic":[]}`)
	})

	_, err := newProvider(t, ts, ProviderSerper).Find(context.Background(), "solar panel efficiency", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if method != http.MethodPost {
		t.Errorf("method = %s, want POST", method)
	}
	if key != "test-key" {
		t.Errorf("X-API-KEY = %q, want test-key", key)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if body.Q != "solar panel efficiency" || body.Num != 10 {
		t.Errorf("body = %+v", body)
	}
}

func TestSerperParsesOrganicResults(t *testing.T) {
	ts := withServer(t, &serperAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"searchParameters": {"q": "solar"},
			"organic": [
				{"title": "NREL efficiency chart", "link": "https://nrel.example/chart", "position": 1},
				{"title": "Perovskite cells", "link": "https://pv.example/perovskite", "position": 2},
				{"title": "No link", "position": 3}
			]
		}`)
	})

	got, err := newProvider(t, ts, ProviderSerper).Find(context.Background(), "solar", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []types.Candidate{
		{URL: "https://nrel.example/chart", Title: "NREL efficiency chart"},
		{URL: "https://pv.example/perovskite", Title: "Perovskite cells"},
		{URL: "", Title: "No link"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSerperHonorsLimit(t *testing.T) {
	ts := withServer(t, &serperAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		var items []string
		for i := 0; i < 5; i++ {
			items = append(items, fmt.Sprintf(`{"title":"t%d","link":"https://e.example/%d"}`, i, i))
		}
		fmt.Fprintf(w, `{"organic":[%s]}`, strings.Join(items, ","))
	})

	got, err := newProvider(t, ts, ProviderSerper).Find(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d candidates, want 3", len(got))
	}
}

func TestSerperErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad key"}`, "HTTP 401"},
		{"server error", http.StatusInternalServerError, "", "HTTP 500"},
		{"malformed json", http.StatusOK, `{"organic":[`, "parsing Serper response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withServer(t, &serperAPIURL, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := newProvider(t, ts, ProviderSerper).Find(context.Background(), "q", 10)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("err = %v, want containing %q", err, tt.wantSub)
			}
		})
	}
}

func TestSerperRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := withServer(t, &serperAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"organic":[{"title":"t","link":"https://e.example"}]}`)
	})

	got, err := newProvider(t, ts, ProviderSerper).Find(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d candidates, want 1", len(got))
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

// --- Brave ---

func TestBraveRequestShape(t *testing.T) {
	var captured *http.Request
	ts := withServer(t, &braveAPIURL, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"web":{"results":[]}}`)
	})

	_, err := newProvider(t, ts, ProviderBrave).Find(context.Background(), "solar panel efficiency", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if captured.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", captured.Method)
	}
	if got := captured.Header.Get("X-Subscription-Token"); got != "test-key" {
		t.Errorf("X-Subscription-Token = %q", got)
	}
	q := captured.URL.Query()
	for param, want := range map[string]string{
		"q":          "solar panel efficiency",
		"count":      "10",
		"safesearch": "off",
		"text_deep":  "true",
	} {
		if got := q.Get(param); got != want {
			t.Errorf("%s = %q, want %q", param, got, want)
		}
	}
}

func TestBraveParsesResultsAndCleansTitles(t *testing.T) {
	ts := withServer(t, &braveAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type":"search","web":{"results":[
			{"title":"Best <strong>solar</strong> panels 2026","url":"https://a.example/best"},
			{"title":"Tom &amp; Jerry","url":"https://b.example"}
		]}}`)
	})

	got, err := newProvider(t, ts, ProviderBrave).Find(context.Background(), "solar", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []types.Candidate{
		{URL: "https://a.example/best", Title: "Best solar panels 2026"},
		{URL: "https://b.example", Title: "Tom & Jerry"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBraveMissingWebSection(t *testing.T) {
	ts := withServer(t, &braveAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type":"search"}`)
	})

	got, err := newProvider(t, ts, ProviderBrave).Find(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestBraveHTTPError(t *testing.T) {
	ts := withServer(t, &braveAPIURL, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := newProvider(t, ts, ProviderBrave).Find(context.Background(), "q", 10)
	if err == nil || !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("err = %v, want HTTP 403", err)
	}
}

// --- New ---

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tests := []struct {
		name     string
		cfg      types.SearchConfig
		wantName string
		wantErr  error
	}{
		{"default is serper", types.SearchConfig{APIKey: "k"}, ProviderSerper, nil},
		{"serper", types.SearchConfig{Provider: ProviderSerper, APIKey: "k"}, ProviderSerper, nil},
		{"brave", types.SearchConfig{Provider: ProviderBrave, APIKey: "k"}, ProviderBrave, nil},
		{"unknown", types.SearchConfig{Provider: "bing", APIKey: "k"}, "", ErrUnknownProvider},
		{"missing key", types.SearchConfig{Provider: ProviderBrave}, "", ErrMissingAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, nil, logger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
