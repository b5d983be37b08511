// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <theme...>",
	Short: "Generate queries, search them all, and report",
	Long: `Run chains the three stages for one theme: it generates queries, searches
every query into the corpus, and prints the report. The corpus keeps any
records from earlier runs in the same state directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	addLLMFlags(runCmd)
	addSearchFlags(runCmd)
	runCmd.Flags().String("markdown", "", "also write the report as Markdown to this file")
	runCmd.Flags().Bool("pretty", false, "render the report as formatted Markdown in the terminal")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, stages{model: true, search: true})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	theme := strings.Join(args, " ")
	queries, err := s.pipeline.GenerateQueries(ctx, theme)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Generated %d queries for %q\n\n", len(queries), theme)

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	summaries, err := searchAll(cmd, s.pipeline, queries, concurrency, os.Stdout)
	if err != nil {
		return err
	}
	if err := writeRunLog(cmd, s.pipeline, theme, summaries); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)

	mdPath, _ := cmd.Flags().GetString("markdown")
	pretty, _ := cmd.Flags().GetBool("pretty")
	return report(ctx, s, mdPath, pretty)
}
