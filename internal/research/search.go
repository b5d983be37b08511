// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/zerosearch/internal/extract"
	"github.com/pdiddy/zerosearch/internal/fetch"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// SearchSummary reports what one Search call added to the corpus.
type SearchSummary struct {
	Query      string
	BatchID    string
	Candidates int
	Extracted  int
	Failed     int
	Skipped    int
}

// Search runs query against the provider, fetches and extracts every
// candidate page in ranking order, and appends the successful records to
// the corpus as one batch.
//
// A failing page is logged and skipped. Only a provider failure, a store
// failure or context cancellation returns an error, and in those cases
// nothing is appended.
func (p *Pipeline) Search(ctx context.Context, query string) (SearchSummary, error) {
	summary := SearchSummary{Query: query}

	limit := p.Config.Search.MaxResults
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}
	candidates, err := p.Provider.Find(ctx, query, limit)
	if err != nil {
		return summary, fmt.Errorf("searching %q with %s: %w", query, p.Provider.Name(), err)
	}
	summary.Candidates = len(candidates)
	p.Logger.Info("search results",
		zap.String("query", query),
		zap.String("provider", p.Provider.Name()),
		zap.Int("candidates", len(candidates)))

	records := []types.ExtractionRecord{}
	fetched := 0
	for _, c := range candidates {
		if c.URL == "" {
			summary.Skipped++
			continue
		}
		if fetched > 0 {
			if err := p.sleep(ctx, p.Config.Fetch.Delay); err != nil {
				return summary, err
			}
		}
		fetched++

		rec, err := p.fetchRecord(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			p.Logger.Warn("skipping page", zap.String("url", c.URL), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	batchID, err := p.Store.AppendRecords(ctx, records)
	if err != nil {
		return summary, fmt.Errorf("appending %d records: %w", len(records), err)
	}
	summary.BatchID = batchID
	summary.Extracted = len(records)
	return summary, nil
}

// fetchRecord downloads one candidate and turns it into a record.
func (p *Pipeline) fetchRecord(ctx context.Context, c types.Candidate) (types.ExtractionRecord, error) {
	if err := p.throttle.Wait(ctx, fetch.HostOf(c.URL)); err != nil {
		return types.ExtractionRecord{}, err
	}
	start := time.Now()
	doc, err := p.Fetcher.Fetch(ctx, c.URL)
	if err != nil {
		return types.ExtractionRecord{}, err
	}
	res := extract.Extract(doc, c.Title)
	p.Logger.Debug("page extracted",
		zap.String("url", c.URL),
		zap.Int("bytes", len(doc)),
		zap.Int("chars", extract.RuneCount(res.Text)),
		zap.Duration("elapsed", time.Since(start)))
	return types.ExtractionRecord{URL: c.URL, Title: res.Title, Text: res.Text}, nil
}

// SearchAllOptions controls SearchAll.
type SearchAllOptions struct {
	// Concurrency is the number of queries searched at once (default 1).
	Concurrency int

	// Progress, when set, is called after each query completes. Calls are
	// serialized; index is the query's position in the input.
	Progress func(index, total int, query string, summary SearchSummary)
}

// SearchAll runs Search for every query. The first hard failure cancels the
// queries not yet finished and is returned; summaries of completed queries
// are still returned in input order.
func (p *Pipeline) SearchAll(ctx context.Context, queries []string, opts SearchAllOptions) ([]SearchSummary, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	p.Logger.Info("searching queries", zap.Int("total", len(queries)), zap.Int("concurrency", concurrency))

	results := make([]SearchSummary, len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary, err := p.Search(gctx, q)
			if err != nil {
				return fmt.Errorf("query %d: %w", i+1, err)
			}
			mu.Lock()
			defer mu.Unlock()
			results[i] = summary
			if opts.Progress != nil {
				opts.Progress(i, len(queries), q, summary)
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
