// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zerosearch/pkg/types"
)

func TestRunLogReplaysQueries(t *testing.T) {
	f := newFixture(t)
	f.provider.results["q1"] = []types.Candidate{
		f.page("https://a.example", "a", "text"),
		{URL: "https://down.example"},
	}
	f.fetcher.fail["https://down.example"] = true

	summaries, err := f.p.SearchAll(context.Background(), []string{"q1", "q2"}, SearchAllOptions{})
	require.NoError(t, err)

	log := f.p.NewRunLog("theme", summaries)
	assert.Equal(t, "fake", log.Provider)
	assert.Equal(t, RunTotals{Extracted: 1, Failed: 1}, log.Totals)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, WriteRunLog(path, log))

	got, err := ReadRunLog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, got.QueryList())
	assert.Equal(t, summaries[0].BatchID, got.Queries[0].BatchID)
}

func TestReadRunLogErrors(t *testing.T) {
	_, err := ReadRunLog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries: [unterminated"), 0o644))
	_, err = ReadRunLog(path)
	assert.Error(t, err)
}
