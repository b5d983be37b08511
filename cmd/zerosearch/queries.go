// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queriesCmd = &cobra.Command{
	Use:   "queries <theme...>",
	Short: "Generate search queries for a research theme",
	Long: `Queries asks the language model for search queries covering the theme
and stores them in the state directory, replacing any previous list. The
theme is every argument joined with spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueries,
}

func init() {
	addLLMFlags(queriesCmd)
	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, stages{model: true})
	if err != nil {
		return err
	}
	defer s.Close()

	queries, err := s.pipeline.GenerateQueries(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	for i, q := range queries {
		fmt.Fprintf(os.Stdout, "%2d. %s\n", i+1, q)
	}
	return nil
}
