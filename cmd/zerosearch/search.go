// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/internal/research"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the web and extract result pages into the corpus",
	Long: `Search runs each query against the search provider, downloads every
result page, extracts its text and appends the records to the corpus.
Each argument is one query; with no arguments the stored query list is
used, or the queries of a saved run log with --from. Pages that fail to
download are skipped. With --log the outcome of every query is written
as a YAML run log.`,
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)
	searchCmd.Flags().String("from", "", "replay the queries of a saved run log")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, stages{search: true})
	if err != nil {
		return err
	}
	defer s.Close()

	queries := args
	if from, _ := cmd.Flags().GetString("from"); from != "" && len(queries) == 0 {
		prev, err := research.ReadRunLog(from)
		if err != nil {
			return err
		}
		queries = prev.QueryList()
	}
	if len(queries) == 0 {
		queries, err = s.store.LoadQueries(cmd.Context())
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			return fmt.Errorf("no queries: pass queries as arguments or run zerosearch queries first")
		}
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	summaries, err := searchAll(cmd, s.pipeline, queries, concurrency, os.Stdout)
	if err != nil {
		return err
	}
	return writeRunLog(cmd, s.pipeline, "", summaries)
}

// writeRunLog saves the run log when --log is set.
func writeRunLog(cmd *cobra.Command, p *research.Pipeline, theme string, summaries []research.SearchSummary) error {
	path, _ := cmd.Flags().GetString("log")
	if path == "" {
		return nil
	}
	if err := research.WriteRunLog(path, p.NewRunLog(theme, summaries)); err != nil {
		return err
	}
	logger.Info("run log written", zap.String("path", path), zap.Int("queries", len(summaries)))
	return nil
}

// searchAll runs the queries and prints one status line per query.
func searchAll(cmd *cobra.Command, p *research.Pipeline, queries []string, concurrency int, w io.Writer) ([]research.SearchSummary, error) {
	summaries, err := p.SearchAll(cmd.Context(), queries, research.SearchAllOptions{
		Concurrency: concurrency,
		Progress: func(index, total int, query string, s research.SearchSummary) {
			fmt.Fprintf(w, "[%d/%d] %s: %d page(s) extracted, %d failed\n", index+1, total, query, s.Extracted, s.Failed)
		},
	})
	if err != nil {
		return summaries, err
	}

	extracted, failed := 0, 0
	for _, s := range summaries {
		extracted += s.Extracted
		failed += s.Failed
	}
	fmt.Fprintf(w, "\nSearch complete: %d queries, %d page(s) extracted, %d failed\n", len(queries), extracted, failed)
	return summaries, nil
}
