package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivekit/hive/store"
	"github.com/joshuapare/hivekit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	// cfg is loaded before every command runs.
	cfg = store.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "hivectl",
	Short: "Exercise and inspect hivekit object pools",
	Long: `hivectl drives hivekit pools from the command line. It can run
synthetic workloads against a pool store and print the page layout a
capacity policy produces.

Configuration is read from --config (YAML) and HIVEKIT_* environment
variables, in that order.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and points the pool logger at stderr
// when --verbose or a log level asks for it.
func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := store.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if verbose && level == "" {
		level = "debug"
	}
	logger.Init(logger.Options{
		Enabled: level != "",
		Output:  os.Stderr,
		Level:   logger.ParseLevel(level),
	})
	printVerbose("Config: pages=%s heap_raw_pages=%t\n", cfg.Pages, cfg.HeapRawPages)
	return nil
}

// poolLogger returns the logger handed to pools.
func poolLogger() *slog.Logger { return logger.L }

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
