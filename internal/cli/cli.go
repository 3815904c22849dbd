//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for commercegen.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/commercebench/commercegen/internal/config"
	"github.com/commercebench/commercegen/internal/logging"
	"github.com/commercebench/commercegen/pkg/version"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	outputDir string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "commercegen",
		Short: "Benchmark fixture generator for relational vs document ingest",
		Long: `commercegen generates one seeded synthetic retail-commerce dataset and
renders it twice: as a batched PostgreSQL load script and as two nested
JSON document collections suitable for MongoDB.

Both renditions describe exactly the same facts, so ingest timings and
query results can be compared across the two data models. The ingest
command loads the generated artifacts into PostgreSQL and MongoDB and
reports per-step timings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./commercegen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"directory for generated artifacts")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ingestCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
