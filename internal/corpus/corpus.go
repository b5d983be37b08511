// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists the state of a research session: the generated
// query list, the append-only corpus of extraction records, and the latest
// report. Two backends are provided, a directory of JSON files and a SQLite
// database; both serialize appends so concurrent search calls never lose
// each other's records.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrEmptyURL is returned when a record without a URL is appended.
	ErrEmptyURL = errors.New("extraction record has an empty url")
)

// Store is the persisted state shared by the pipeline stages. The query
// list and the report are replaced wholesale; records are only appended.
type Store interface {
	// LoadRecords returns the full corpus in insertion order. A store that
	// has never been written returns an empty slice.
	LoadRecords(ctx context.Context) ([]types.ExtractionRecord, error)

	// AppendRecords adds records to the end of the corpus as one batch and
	// returns the batch ID. An empty batch is a no-op.
	AppendRecords(ctx context.Context, records []types.ExtractionRecord) (string, error)

	// LoadQueries returns the stored query list, or nil if none was saved.
	LoadQueries(ctx context.Context) ([]string, error)

	// SaveQueries replaces the stored query list.
	SaveQueries(ctx context.Context, queries []string) error

	// LoadReport returns the latest report. ok is false when no report has
	// been saved yet.
	LoadReport(ctx context.Context) (report string, ok bool, err error)

	// SaveReport replaces the stored report.
	SaveReport(ctx context.Context, report string) error

	// Close releases resources held by the store.
	Close() error
}

// BatchCounter is implemented by stores that persist batch IDs.
type BatchCounter interface {
	BatchCount(ctx context.Context) (int, error)
}

// Open creates the state directory if needed and returns the store
// selected by cfg.Backend. An empty backend selects the file store.
func Open(cfg types.StoreConfig) (Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("%w %q: use %s or %s", ErrUnknownBackend, cfg.Backend, BackendFile, BackendSQLite)
	}
}

func newBatchID() string {
	return uuid.NewString()
}

func validate(records []types.ExtractionRecord) error {
	for i, r := range records {
		if r.URL == "" {
			return fmt.Errorf("record %d: %w", i, ErrEmptyURL)
		}
	}
	return nil
}
