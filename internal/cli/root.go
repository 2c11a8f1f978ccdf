// Package cli implements the command-line interface for eventlens.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eventlens/eventlens/internal/output"
)

//nolint:gochecknoglobals // Cobra commands are designed to be global variables
var rootCmd = &cobra.Command{
	Use:   "eventlens",
	Short: "Multi-tenant event analytics over a local event store",
	Long: `eventlens ingests timestamped, typed events per tenant and answers
analytical questions over them: total counts, counts grouped by event
type, and counts bucketed over time. All filters are validated before
they reach query text.

A scheduled rollup pre-aggregates completed days, weeks and months into
summary rows so historical counts are answered from a single row lookup.`,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

//nolint:gochecknoinits // Cobra commands require init() for flag registration
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "Path to configuration file (optional)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.DBPath, "db", "", "Path to the SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "text", "Log format (text, json)")

	// Add commands
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

// GetRootCmd returns the root command for testing purposes
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the CLI
func Execute() {
	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		output.Warn("Interrupt received, canceling...")
		cancel()
	}()

	// Execute command with context
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(renderError(err))
		os.Exit(exitCode(err))
	}
}

// setupLogging configures the logger based on the log flags
func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := logrus.ParseLevel(strings.ToLower(globalFlags.LogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", globalFlags.LogLevel, err)
	}

	logrus.SetLevel(level)
	switch strings.ToLower(globalFlags.LogFormat) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:    false,
			FullTimestamp:    true,
			TimestampFormat:  "15:04:05",
			PadLevelText:     true,
			QuoteEmptyFields: true,
		})
	}

	// Log to stderr to keep stdout clean for output
	logrus.SetOutput(os.Stderr)

	logrus.WithFields(logrus.Fields{
		"config":     globalFlags.ConfigFile,
		"db":         globalFlags.DBPath,
		"log_level":  globalFlags.LogLevel,
		"log_format": globalFlags.LogFormat,
	}).Debug("CLI initialized")

	return nil
}
