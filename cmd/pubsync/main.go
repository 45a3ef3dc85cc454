// Package main provides the pubsync CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/pubsync/internal/config"
	"github.com/matsen/pubsync/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// jsonOutput switches command output to JSON
	jsonOutput bool
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (unknown flags etc.) are printed here
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubsync",
	Short: "Sync a researcher's publications into MDX content files",
	Long: `pubsync fetches journal articles from ORCID and OpenAlex, merges
records describing the same paper, and writes one MDX frontmatter file
per publication into a content directory.

ORCID is the primary source: if it cannot be read the run aborts and no
files change. OpenAlex enriches records with citation counts, journals and
topics; it is skipped when OPENALEX_API_KEY is unset and ignored on error.

Files are only written when their content changes, and stale .mdx files
are removed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for OPENALEX_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/pubsync/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.Version = Version
}

// mustLoadConfig loads and validates configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		exitWithError(ExitConfigError, "invalid log level %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// mustNewLogger builds the stderr logger, exits on error.
// LOG_FORMAT=json switches to JSON log lines.
func mustNewLogger(cfg *config.Config) logger.Logger {
	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		exitWithError(ExitError, "creating logger: %v", err)
	}
	return log
}
