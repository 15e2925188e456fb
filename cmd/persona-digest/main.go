// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the persona-digest CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/persona-digest/internal/config"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built from the persistent log flags before any command runs.
	logger *log.Logger

	// configErr holds a failure to read the config file; it is reported
	// by the first command that runs.
	configErr error
)

// rootCmd is the base command for the persona-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "persona-digest",
	Short: "Rank document sections for a persona and a job to be done",
	Long: `persona-digest reads a collection of documents, splits them into titled
sections, ranks every section against keywords drawn from a persona and a
job to be done, and writes the top sections with a short extractive summary
of each.

Documents may be PDF, plain text, Markdown, or DOCX files. Results are
written as JSON, YAML, or appended to a SQLite database that the inspect
command can search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := newLogger(cmd)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./persona-digest.yaml or ~/.config/persona-digest/persona-digest.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	used, err := config.Setup(viper.GetViper(), cfgFile)
	if err != nil {
		configErr = err
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// newLogger builds a stderr logger from the persistent log flags.
func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "persona-digest",
	})
	if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
		l.SetFormatter(log.JSONFormatter)
	}
	return l, nil
}

// pipelineConfig loads the configuration and applies the command's
// --top-k and --workers flags when they were given.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return types.PipelineConfig{}, err
	}
	if f := cmd.Flags().Lookup("top-k"); f != nil && f.Changed {
		cfg.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if err := config.Validate(cfg); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
