package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/pubsync/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file and environment
variables are applied. The OpenAlex API key is masked.

Environment:
  OPENALEX_API_KEY     OpenAlex API key (also read from .env)
  PUBSYNC_OUTPUT_DIR   Content directory
  PUBSYNC_LOG_LEVEL    Log level`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the JSON output of the config command.
type ConfigResponse struct {
	ConfigPath       string `json:"config_path"`
	ORCIDID          string `json:"orcid_id"`
	OpenAlexAuthorID string `json:"openalex_author_id"`
	OpenAlexAPIKey   string `json:"openalex_api_key"`
	OutputDir        string `json:"output_dir"`
	ORCIDBaseURL     string `json:"orcid_base_url"`
	OpenAlexBaseURL  string `json:"openalex_base_url"`
	RequestTimeout   string `json:"request_timeout"`
	BatchSize        int    `json:"batch_size"`
	LogLevel         string `json:"log_level"`
	HistoryDB        string `json:"history_db"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig().Redacted()
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if jsonOutput {
		return outputJSON(ConfigResponse{
			ConfigPath:       path,
			ORCIDID:          cfg.ORCIDID,
			OpenAlexAuthorID: cfg.OpenAlexAuthorID,
			OpenAlexAPIKey:   cfg.OpenAlexAPIKey,
			OutputDir:        cfg.OutputDir,
			ORCIDBaseURL:     cfg.ORCIDBaseURL,
			OpenAlexBaseURL:  cfg.OpenAlexBaseURL,
			RequestTimeout:   cfg.RequestTimeout.String(),
			BatchSize:        cfg.BatchSize,
			LogLevel:         cfg.LogLevel,
			HistoryDB:        cfg.HistoryDB,
		})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		exitWithError(ExitError, "encoding config: %v", err)
	}
	outputHuman("# %s\n", path)
	fmt.Print(string(data))
	return nil
}
