// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zerosearch/internal/corpus"
	"github.com/pdiddy/zerosearch/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the extracted corpus",
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records in the corpus",
	Args:  cobra.NoArgs,
	RunE:  runCorpusList,
}

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the corpus as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runCorpusExport,
}

func init() {
	corpusExportCmd.Flags().String("format", corpus.FormatYAML, "output format: yaml or json")
	corpusExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	corpusCmd.AddCommand(corpusListCmd, corpusExportCmd)
	rootCmd.AddCommand(corpusCmd)
}

func openStore(cmd *cobra.Command) (corpus.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return corpus.Open(cfg.Store)
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	batches := -1
	if bc, ok := store.(corpus.BatchCounter); ok {
		if batches, err = bc.BatchCount(ctx); err != nil {
			return err
		}
	}
	return writeCorpusList(cmd.OutOrStdout(), records, batches)
}

// writeCorpusList prints one row per record and a summary line. batches is
// omitted from the summary when negative.
func writeCorpusList(w io.Writer, records []types.ExtractionRecord, batches int) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "Corpus is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tURL\tCHARS")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, shorten(r.Title, 60), r.URL, utf8.RuneCountInString(r.Text))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if batches >= 0 {
		fmt.Fprintf(w, "\n%d record(s) in %d batch(es)\n", len(records), batches)
	} else {
		fmt.Fprintf(w, "\n%d record(s)\n", len(records))
	}
	return nil
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	return corpus.Export(cmd.Context(), store, w, format)
}

// shorten cuts s to n characters with a trailing ellipsis.
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
