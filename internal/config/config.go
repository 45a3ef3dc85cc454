// Package config handles pubsync configuration: compiled-in defaults, an
// optional YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective configuration for a sync run.
type Config struct {
	ORCIDID          string        `yaml:"orcid_id"`
	OpenAlexAuthorID string        `yaml:"openalex_author_id"`
	OpenAlexAPIKey   string        `yaml:"openalex_api_key,omitempty"`
	OutputDir        string        `yaml:"output_dir"`
	ORCIDBaseURL     string        `yaml:"orcid_base_url"`
	OpenAlexBaseURL  string        `yaml:"openalex_base_url"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	BatchSize        int           `yaml:"batch_size"`
	LogLevel         string        `yaml:"log_level"`
	HistoryDB        string        `yaml:"history_db,omitempty"` // Empty disables the run ledger
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "pubsync"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	DefaultORCIDID          = "0000-0002-8428-1086"
	DefaultOpenAlexAuthorID = "a5021047469"
	DefaultOutputDir        = "src/content/publications"
	DefaultORCIDBaseURL     = "https://pub.orcid.org/v3.0"
	DefaultOpenAlexBaseURL  = "https://api.openalex.org"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultLogLevel         = "info"

	// MaxBatchSize is the most put-codes ORCID accepts in one bulk read.
	MaxBatchSize = 50
)

// Environment variables read by ApplyEnv.
const (
	EnvOpenAlexAPIKey = "OPENALEX_API_KEY"
	EnvOutputDir      = "PUBSYNC_OUTPUT_DIR"
	EnvLogLevel       = "PUBSYNC_LOG_LEVEL"
)

// ErrConfigNotFound is returned when an explicitly requested config file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		ORCIDID:          DefaultORCIDID,
		OpenAlexAuthorID: DefaultOpenAlexAuthorID,
		OutputDir:        DefaultOutputDir,
		ORCIDBaseURL:     DefaultORCIDBaseURL,
		OpenAlexBaseURL:  DefaultOpenAlexBaseURL,
		RequestTimeout:   DefaultRequestTimeout,
		BatchSize:        MaxBatchSize,
		LogLevel:         DefaultLogLevel,
	}
}

// DefaultPath returns the path of the default config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pubsync/config.yml.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path means DefaultPath(), which may be absent.
// An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.ApplyEnv()
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.HistoryDB = ExpandPath(cfg.HistoryDB)
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvOpenAlexAPIKey); v != "" {
		c.OpenAlexAPIKey = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that the configuration can drive a sync run.
func (c *Config) Validate() error {
	if c.ORCIDID == "" {
		return errors.New("orcid_id must not be empty")
	}
	if c.OpenAlexAuthorID == "" {
		return errors.New("openalex_author_id must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.ORCIDBaseURL == "" || c.OpenAlexBaseURL == "" {
		return errors.New("base URLs must not be empty")
	}
	if c.BatchSize <= 0 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// Redacted returns a copy with the API key masked, for display.
func (c Config) Redacted() Config {
	if c.OpenAlexAPIKey != "" {
		c.OpenAlexAPIKey = "********"
	}
	return c
}

// ExpandPath expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
