// Package cli implements the docwright command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/config"
	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/logging"
)

var (
	nonInteractive bool
	noProgress     bool
	assumeYes      bool
	logLevelFlag   string
)

var appConfig *config.Config

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "docwright",
	Short: "Generate project documentation from source analysis",
	Long: `Docwright analyzes a source tree and renders documentation from
templates, optionally polished by an AI model. Generation runs and token
spend are kept in a local database.

Configuration is read from .docwright.yaml in the working directory,
falling back to the user config directory and DOCWRIGHT_* environment
variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		appConfig = cfg

		level := cfg.Log.Level
		if strings.TrimSpace(logLevelFlag) != "" {
			level = logLevelFlag
		}
		logging.Setup(level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&jsonlOutput, "jsonl", false, "output as JSON lines")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail or use defaults instead")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "assume yes for confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override log level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(err)
		return err
	}
	return nil
}

// SetVersionInfo records build metadata injected by the linker.
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		buildVersion = version
	}
	if strings.TrimSpace(commit) != "" {
		buildCommit = commit
	}
	if strings.TrimSpace(date) != "" {
		buildDate = date
	}
	rootCmd.Version = buildVersion
}

// GetConfig returns the loaded configuration, or defaults when no command
// has run yet.
func GetConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.Default()
}

// openDatabase opens the docwright database at its configured location,
// running any pending migrations.
func openDatabase() (*db.DB, error) {
	database, err := db.Open(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := database.MigrateUp(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

func printCommandError(err error) {
	var preflight *PreflightError
	if asPreflight(err, &preflight) {
		fmt.Fprintln(os.Stderr, "Error:", preflight.Message)
		if preflight.Hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", preflight.Hint)
		}
		if preflight.NextStep != "" {
			fmt.Fprintln(os.Stderr, "Next:", preflight.NextStep)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}
