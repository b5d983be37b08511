// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zerosearch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/zerosearch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built in PersistentPreRunE; commands log through it.
	logger = zap.NewNop()

	// loadedSecrets holds API keys loaded from the secrets directories.
	loadedSecrets = secrets.Secrets{}
)

// rootCmd is the base command for the zerosearch CLI.
var rootCmd = &cobra.Command{
	Use:   "zerosearch",
	Short: "Web research with a search API and a language model",
	Long: `zerosearch researches a theme on the open web. It asks a language model
for search queries, runs each query against a search API, downloads and
extracts the text of every result page into a corpus, and has the model
condense the corpus into a report.

Each stage is a subcommand: queries, search and report. run chains all
three. State lives in the state directory (--state-dir) so stages can be
run separately and repeated; search only ever appends to the corpus.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		s, err := loadSecrets(cmd)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./zerosearch.yaml or $XDG_CONFIG_HOME/zerosearch/zerosearch.yaml)")
	pf.String("state-dir", "", "directory holding queries, corpus and report (default: research)")
	pf.String("store", "", "state backend: file or sqlite (default: file)")
	pf.String("secrets-dir", ".secrets", "directory of API key files")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("store.dir", pf.Lookup("state-dir"))
	viper.BindPFlag("store.backend", pf.Lookup("store"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zerosearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "zerosearch"))
	}

	viper.SetEnvPrefix("ZEROSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the production logger writing to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return config.Build()
}

// loadSecrets merges the user-wide secrets directory with the local one;
// local files win.
func loadSecrets(cmd *cobra.Command) (secrets.Secrets, error) {
	merged := secrets.Secrets{}
	dir, _ := cmd.Flags().GetString("secrets-dir")
	for _, d := range []string{filepath.Join(xdg.ConfigHome, "zerosearch", "secrets"), dir} {
		s, err := secrets.Load(d, logger)
		if err != nil {
			return nil, err
		}
		for k, v := range s {
			merged[k] = v
		}
	}
	return merged, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
