// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// DBFile is the SQLite database file name inside the state directory.
const DBFile = "zerosearch.db"

// SQLiteStore keeps session state in a SQLite database. Records carry the
// batch ID of the search call that appended them; their order is the
// insertion sequence.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens or creates dir/zerosearch.db and its schema.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	dbPath := filepath.Join(dir, DBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_batch_id ON records(batch_id)`,
		`CREATE TABLE IF NOT EXISTS queries (
			position INTEGER PRIMARY KEY,
			query TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			body TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// LoadRecords returns all records ordered by insertion sequence.
func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]types.ExtractionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, title, text FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []types.ExtractionRecord{}
	for rows.Next() {
		var r types.ExtractionRecord
		if err := rows.Scan(&r.URL, &r.Title, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AppendRecords inserts records in one transaction under the store lock.
func (s *SQLiteStore) AppendRecords(ctx context.Context, records []types.ExtractionRecord) (string, error) {
	if err := validate(records); err != nil {
		return "", err
	}
	batchID := newBatchID()
	if len(records) == 0 {
		return batchID, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO records (batch_id, url, title, text, created_at) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC().Format(time.RFC3339Nano)
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, batchID, r.URL, r.Title, r.Text, now); err != nil {
				return fmt.Errorf("inserting record %s: %w", r.URL, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return batchID, nil
}

// LoadQueries returns the stored queries in position order.
func (s *SQLiteStore) LoadQueries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT query FROM queries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning query: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// SaveQueries deletes the stored list and inserts queries in one transaction.
func (s *SQLiteStore) SaveQueries(ctx context.Context, queries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM queries`); err != nil {
			return fmt.Errorf("clearing queries: %w", err)
		}
		for i, q := range queries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO queries (position, query) VALUES (?, ?)`, i, q); err != nil {
				return fmt.Errorf("inserting query %d: %w", i, err)
			}
		}
		return nil
	})
}

// LoadReport returns the stored report, if any.
func (s *SQLiteStore) LoadReport(ctx context.Context) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying report: %w", err)
	}
	return body, true, nil
}

// SaveReport replaces the stored report.
func (s *SQLiteStore) SaveReport(ctx context.Context, report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, body, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		report, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// BatchCount returns the number of distinct batches in the corpus.
func (s *SQLiteStore) BatchCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(DISTINCT batch_id) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting batches: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
