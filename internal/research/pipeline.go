// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs the web research pipeline: generate search queries
// for a theme, search and extract pages into the corpus, and reduce the
// corpus into a report with a language model.
package research

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/internal/corpus"
	"github.com/pdiddy/zerosearch/internal/fetch"
	"github.com/pdiddy/zerosearch/internal/llm"
	"github.com/pdiddy/zerosearch/internal/search"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// Pipeline holds the services shared by the three stages. Stages may run
// concurrently on one Pipeline: corpus appends are serialized by the store
// and page fetches share one per-host throttle.
type Pipeline struct {
	Store     corpus.Store
	Provider  search.Provider
	Fetcher   fetch.Fetcher
	Completer llm.Completer
	Config    types.PipelineConfig
	Logger    *zap.Logger

	throttle *fetch.HostThrottle
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPipeline wires a pipeline. A stage only needs the services it uses:
// Report never touches the provider or fetcher, so those may be nil for a
// report-only run.
func NewPipeline(cfg types.PipelineConfig, store corpus.Store, provider search.Provider, fetcher fetch.Fetcher, completer llm.Completer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Store:     store,
		Provider:  provider,
		Fetcher:   fetcher,
		Completer: completer,
		Config:    cfg,
		Logger:    logger,
		throttle:  fetch.NewHostThrottle(cfg.Fetch.Delay),
		sleep:     sleepContext,
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
