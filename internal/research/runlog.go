// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// RunLog is the on-disk record of one search run: which queries ran, with
// which provider, and what each added to the corpus. A saved log can be
// replayed to search the same queries again.
type RunLog struct {
	Theme     string     `yaml:"theme,omitempty"`
	Provider  string     `yaml:"provider"`
	Fetcher   string     `yaml:"fetcher"`
	Timestamp time.Time  `yaml:"timestamp"`
	Queries   []QueryLog `yaml:"queries"`
	Totals    RunTotals  `yaml:"totals"`
}

// QueryLog is the outcome of one query in a run.
type QueryLog struct {
	Query      string `yaml:"query"`
	BatchID    string `yaml:"batch_id,omitempty"`
	Candidates int    `yaml:"candidates"`
	Extracted  int    `yaml:"extracted"`
	Failed     int    `yaml:"failed"`
	Skipped    int    `yaml:"skipped"`
}

// RunTotals sums the query outcomes.
type RunTotals struct {
	Extracted int `yaml:"extracted"`
	Failed    int `yaml:"failed"`
}

// NewRunLog builds a log from the summaries returned by SearchAll.
func (p *Pipeline) NewRunLog(theme string, summaries []SearchSummary) RunLog {
	log := RunLog{
		Theme:     theme,
		Provider:  p.Provider.Name(),
		Fetcher:   p.Fetcher.Name(),
		Timestamp: time.Now().UTC(),
	}
	for _, s := range summaries {
		log.Queries = append(log.Queries, QueryLog{
			Query:      s.Query,
			BatchID:    s.BatchID,
			Candidates: s.Candidates,
			Extracted:  s.Extracted,
			Failed:     s.Failed,
			Skipped:    s.Skipped,
		})
		log.Totals.Extracted += s.Extracted
		log.Totals.Failed += s.Failed
	}
	return log
}

// QueryList returns the queries of the log in run order.
func (l RunLog) QueryList() []string {
	out := make([]string, 0, len(l.Queries))
	for _, q := range l.Queries {
		if q.Query != "" {
			out = append(out, q.Query)
		}
	}
	return out
}

// WriteRunLog saves log as YAML.
func WriteRunLog(path string, log RunLog) error {
	data, err := yaml.Marshal(&log)
	if err != nil {
		return fmt.Errorf("marshaling run log: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunLog loads a previously saved run log from disk.
func ReadRunLog(path string) (*RunLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	var log RunLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return &log, nil
}
