// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/zerosearch/internal/corpus"
	"github.com/pdiddy/zerosearch/internal/fetch"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// fakeProvider returns canned candidates per query.
type fakeProvider struct {
	results map[string][]types.Candidate
	err     error

	mu     sync.Mutex
	limits []int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Find(_ context.Context, query string, limit int) ([]types.Candidate, error) {
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

// fakeFetcher serves pages from a map. URLs in fail return an error.
type fakeFetcher struct {
	pages map[string]string
	fail  map[string]bool

	mu    sync.Mutex
	calls []string
}

var errFetch = errors.New("connection refused")

func (f *fakeFetcher) Name() string { return "fake" }
func (f *fakeFetcher) Close() error { return nil }

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.fail[url] {
		return nil, errFetch
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return []byte(page), nil
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// completion is one recorded model call.
type completion struct {
	prompt      string
	temperature float64
}

// fakeCompleter answers with reply, or with a numbered summary when reply
// is empty.
type fakeCompleter struct {
	reply string
	err   error

	mu    sync.Mutex
	calls []completion
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, completion{prompt, temperature})
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return fmt.Sprintf("summary %d", len(f.calls)), nil
}

func (f *fakeCompleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fixture is a pipeline over a real file store with fake services.
type fixture struct {
	p         *Pipeline
	store     corpus.Store
	provider  *fakeProvider
	fetcher   *fakeFetcher
	completer *fakeCompleter

	mu     sync.Mutex
	sleeps []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := corpus.Open(types.StoreConfig{Backend: corpus.BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:     store,
		provider:  &fakeProvider{results: map[string][]types.Candidate{}},
		fetcher:   &fakeFetcher{pages: map[string]string{}, fail: map[string]bool{}},
		completer: &fakeCompleter{},
	}
	f.p = NewPipeline(types.DefaultPipelineConfig(), store, f.provider, f.fetcher, f.completer, zaptest.NewLogger(t))
	f.p.throttle = fetch.NewHostThrottle(0)
	f.p.sleep = func(ctx context.Context, d time.Duration) error {
		f.mu.Lock()
		f.sleeps = append(f.sleeps, d)
		f.mu.Unlock()
		return ctx.Err()
	}
	return f
}

// page registers a simple HTML page and returns its candidate.
func (f *fixture) page(url, title, body string) types.Candidate {
	f.fetcher.pages[url] = fmt.Sprintf("<html><head><title>%s</title></head><body><p>%s</p></body></html>", title, body)
	return types.Candidate{URL: url, Title: title}
}

func (f *fixture) corpus(t *testing.T) []types.ExtractionRecord {
	t.Helper()
	recs, err := f.store.LoadRecords(context.Background())
	require.NoError(t, err)
	return recs
}

func bigText(seed string, n int) string {
	return strings.Repeat(seed, n/len(seed)+1)[:n]
}
