// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/zerosearch/pkg/types"
)

func TestHTTPFetcherSendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ts.Close()

	f := NewHTTPFetcher(types.FetchConfig{})
	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html><body>ok</body></html>", string(body))
	assert.Equal(t, types.DefaultUserAgent, gotUA)
	assert.Contains(t, gotAccept, "text/html")
}

func TestHTTPFetcherCustomUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	f := NewHTTPFetcher(types.FetchConfig{HTTPConfig: types.HTTPConfig{UserAgent: "zerosearch-test"}})
	_, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "zerosearch-test", gotUA)
}

func TestHTTPFetcherStatusHandling(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"no content", http.StatusNoContent, false},
		{"not found", http.StatusNotFound, true},
		{"forbidden", http.StatusForbidden, true},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			_, err := NewHTTPFetcher(types.FetchConfig{}).Fetch(context.Background(), ts.URL)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	f := NewHTTPFetcher(types.FetchConfig{HTTPConfig: types.HTTPConfig{Timeout: 50 * time.Millisecond}})
	start := time.Now()
	_, err := f.Fetch(context.Background(), ts.URL)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPFetcherCapsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer ts.Close()

	f := NewHTTPFetcher(types.FetchConfig{MaxBytes: 100})
	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestHTTPFetcherUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.URL
	ts.Close()

	_, err := NewHTTPFetcher(types.FetchConfig{}).Fetch(context.Background(), addr)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)

	f, err := New(types.FetchConfig{}, logger)
	require.NoError(t, err)
	assert.Equal(t, FetcherHTTP, f.Name())

	f, err = New(types.FetchConfig{Fetcher: FetcherBrowser}, logger)
	require.NoError(t, err)
	assert.Equal(t, FetcherBrowser, f.Name())
	// No browser was started, so Close has nothing to release.
	assert.NoError(t, f.Close())

	_, err = New(types.FetchConfig{Fetcher: "curl"}, logger)
	assert.ErrorIs(t, err, ErrUnknownFetcher)
}
