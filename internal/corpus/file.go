// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// File names used by FileStore inside the state directory.
const (
	QueriesFile = "queries.json"
	ResultsFile = "results.json"
	ReportFile  = "report.txt"
)

// FileStore keeps session state as plain files in one directory:
// queries.json (a JSON array of strings), results.json (a JSON array of
// records) and report.txt (the raw report). Missing or zero-length files
// read as empty. Every write replaces its file atomically.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory must exist.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// LoadRecords reads results.json.
func (s *FileStore) LoadRecords(_ context.Context) ([]types.ExtractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRecords()
}

func (s *FileStore) loadRecords() ([]types.ExtractionRecord, error) {
	records := []types.ExtractionRecord{}
	found, err := s.readJSON(ResultsFile, &records)
	if err != nil || !found {
		return []types.ExtractionRecord{}, err
	}
	return records, nil
}

// AppendRecords loads results.json, extends it with records and rewrites it.
// The load-extend-persist cycle holds the store lock.
func (s *FileStore) AppendRecords(_ context.Context, records []types.ExtractionRecord) (string, error) {
	if err := validate(records); err != nil {
		return "", err
	}
	batchID := newBatchID()
	if len(records) == 0 {
		return batchID, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadRecords()
	if err != nil {
		return "", err
	}
	existing = append(existing, records...)
	if err := s.writeJSON(ResultsFile, existing); err != nil {
		return "", err
	}
	return batchID, nil
}

// LoadQueries reads queries.json.
func (s *FileStore) LoadQueries(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queries []string
	if _, err := s.readJSON(QueriesFile, &queries); err != nil {
		return nil, err
	}
	return queries, nil
}

// SaveQueries overwrites queries.json.
func (s *FileStore) SaveQueries(_ context.Context, queries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if queries == nil {
		queries = []string{}
	}
	return s.writeJSON(QueriesFile, queries)
}

// LoadReport reads report.txt. A missing or empty file means no report.
func (s *FileStore) LoadReport(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, ReportFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading report: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// SaveReport overwrites report.txt.
func (s *FileStore) SaveReport(_ context.Context, report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(filepath.Join(s.dir, ReportFile), []byte(report))
}

// Close is a no-op for FileStore.
func (s *FileStore) Close() error { return nil }

// readJSON decodes name into v. found is false when the file is missing or
// empty, in which case v is left untouched.
func (s *FileStore) readJSON(name string, v any) (found bool, err error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return writeFileAtomic(filepath.Join(s.dir, name), data)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".zerosearch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
