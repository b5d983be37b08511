// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// setDefaults registers every config key with its default so that
// environment variables and config files can override any of them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("search.provider", d.Search.Provider)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.max_retries", d.Search.MaxRetries)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)

	v.SetDefault("fetch.fetcher", d.Fetch.Fetcher)
	v.SetDefault("fetch.delay", d.Fetch.Delay)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_bytes", d.Fetch.MaxBytes)
	v.SetDefault("fetch.browser_url", "")

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("queries.count", d.Queries.Count)
	v.SetDefault("queries.temperature", d.Queries.Temperature)

	v.SetDefault("report.token_budget", d.Report.TokenBudget)
	v.SetDefault("report.chars_per_token", d.Report.CharsPerToken)
	v.SetDefault("report.temperature", d.Report.Temperature)

	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dir", d.Store.Dir)
}

// addLLMFlags registers the flags of commands that call the model.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().String("llm", "", "language model provider: openrouter, anthropic or gemini")
	cmd.Flags().String("model", "", "model identifier (default depends on --llm)")
}

// addSearchFlags registers the flags of commands that search and fetch.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "search provider: serper or brave")
	cmd.Flags().String("fetcher", "", "page fetcher: http or browser")
	cmd.Flags().Duration("delay", 0, "delay between consecutive page fetches (default 1s)")
	cmd.Flags().Duration("timeout", 0, "page fetch timeout (default 10s)")
	cmd.Flags().Int("concurrency", 1, "queries searched at once")
	cmd.Flags().String("log", "", "write a YAML run log of every query to this file")
}

// loadConfig resolves the pipeline configuration: defaults, then config
// file and environment through viper, then flags set on cmd, then API keys
// from the secrets directories for any key still empty.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	return resolveConfig(cmd, viper.GetViper())
}

func resolveConfig(cmd *cobra.Command, v *viper.Viper) (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("llm") {
		cfg.LLM.Provider, _ = flags.GetString("llm")
	}
	if flags.Changed("model") {
		cfg.LLM.Model, _ = flags.GetString("model")
	}
	if flags.Changed("provider") {
		cfg.Search.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("fetcher") {
		cfg.Fetch.Fetcher, _ = flags.GetString("fetcher")
	}
	if flags.Changed("delay") {
		cfg.Fetch.Delay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("timeout") {
		cfg.Fetch.Timeout, _ = flags.GetDuration("timeout")
	}

	loadedSecrets.Apply(&cfg)
	return cfg, nil
}
