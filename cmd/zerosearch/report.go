// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zerosearch/internal/corpus"
	"github.com/pdiddy/zerosearch/internal/render"
	"github.com/pdiddy/zerosearch/internal/research"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Condense the corpus into a report",
	Long: `Report has the language model summarize the whole corpus and stores the
result in the state directory. Large corpora are summarized in chunks and
the chunk summaries are summarized once more. An empty corpus prints
"No results available for reporting".`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	addLLMFlags(reportCmd)
	reportCmd.Flags().String("markdown", "", "also write the report as Markdown to this file")
	reportCmd.Flags().Bool("pretty", false, "render the report as formatted Markdown in the terminal")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, stages{model: true})
	if err != nil {
		return err
	}
	defer s.Close()

	mdPath, _ := cmd.Flags().GetString("markdown")
	pretty, _ := cmd.Flags().GetBool("pretty")
	return report(cmd.Context(), s, mdPath, pretty)
}

// report generates, prints and optionally renders the report.
func report(ctx context.Context, s *session, mdPath string, pretty bool) error {
	text, err := s.pipeline.Report(ctx)
	if err != nil {
		return err
	}
	out := text
	if pretty && !research.IsNoResults(text) {
		if out, err = render.Terminal(text, 0, ""); err != nil {
			return err
		}
	}
	fmt.Fprintln(os.Stdout, out)

	if mdPath == "" {
		return nil
	}
	if err := writeMarkdown(ctx, s.store, text, mdPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Markdown report written to %s\n", mdPath)
	return nil
}

func writeMarkdown(ctx context.Context, store corpus.Store, text, path string) error {
	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	queries, err := store.LoadQueries(ctx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	err = render.Markdown(f, render.Document{
		Report:    text,
		Queries:   queries,
		Records:   records,
		Generated: time.Now(),
		Empty:     research.IsNoResults(text),
	})
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return f.Close()
}
