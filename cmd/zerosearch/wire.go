// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"

	"github.com/pdiddy/zerosearch/internal/corpus"
	"github.com/pdiddy/zerosearch/internal/fetch"
	"github.com/pdiddy/zerosearch/internal/llm"
	"github.com/pdiddy/zerosearch/internal/research"
	"github.com/pdiddy/zerosearch/internal/search"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// stages selects the services a command needs.
type stages struct {
	model  bool
	search bool
}

// session is a pipeline plus the resources to release after the command.
type session struct {
	pipeline *research.Pipeline
	store    corpus.Store
	fetcher  fetch.Fetcher
}

func (s *session) Close() error {
	var errs []error
	if s.fetcher != nil {
		errs = append(errs, s.fetcher.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}

// openSession opens the store and constructs only the services the
// command uses, so a report run needs no search key.
func openSession(ctx context.Context, cfg types.PipelineConfig, need stages) (*session, error) {
	store, err := corpus.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	s := &session{store: store}

	var completer llm.Completer
	if need.model {
		completer, err = llm.New(ctx, cfg.LLM, nil)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	var provider search.Provider
	if need.search {
		provider, err = search.New(cfg.Search, nil, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.fetcher, err = fetch.New(cfg.Fetch, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	s.pipeline = research.NewPipeline(cfg, store, provider, s.fetcher, completer, logger)
	return s, nil
}
