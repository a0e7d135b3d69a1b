// Package config handles configuration loading and validation for ragstore.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config represents the complete ragstore configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Search SearchConfig `mapstructure:"search"`
	Ignore []string     `mapstructure:"ignore"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	// Backend is "memory" or "openai".
	Backend string `mapstructure:"backend"`

	// APIKey identifies the client. Required even for the memory backend,
	// which fails fast on a blank key like the network backend does.
	APIKey string `mapstructure:"api_key"`

	// ProcessingDelayMs is the simulated processing latency of the memory
	// backend.
	ProcessingDelayMs int `mapstructure:"processing_delay_ms"`

	OpenAI OpenAIStoreConfig `mapstructure:"openai"`
}

// OpenAIStoreConfig configures the OpenAI-backed store.
type OpenAIStoreConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	VectorStoreID string `mapstructure:"vector_store_id"`
}

// IngestConfig configures directory ingestion.
type IngestConfig struct {
	MaxFileSize  int64 `mapstructure:"max_file_size"`
	MaxFileCount int   `mapstructure:"max_file_count"`
}

// SearchConfig configures search defaults.
type SearchConfig struct {
	Limit     int     `mapstructure:"limit"`
	Threshold float64 `mapstructure:"threshold"`
}

// Global configuration instance
var cfg *Config

// Get returns the current configuration.
func Get() *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:           DefaultBackend,
			APIKey:            DefaultAPIKey,
			ProcessingDelayMs: DefaultProcessingDelayMs,
		},
		Ingest: IngestConfig{
			MaxFileSize:  DefaultMaxIngestFileSize,
			MaxFileCount: DefaultMaxIngestFileCount,
		},
		Search: SearchConfig{
			Limit:     DefaultSearchLimit,
			Threshold: DefaultSearchThreshold,
		},
		Ignore: DefaultIgnorePatterns(),
	}
}

// Load reads configuration from file and environment variables.
func Load(configFile string) error {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(DefaultConfigDir())
		viper.AddConfigPath(".")

		if rcPath := findRCFile(); rcPath != "" {
			viper.SetConfigFile(rcPath)
		}
	}

	viper.SetEnvPrefix("RAGSTORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Loaded config from", "file", viper.ConfigFileUsed())
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	loadAPIKeysFromEnv()

	return nil
}

// setDefaults sets default values in viper.
func setDefaults() {
	viper.SetDefault("store.backend", DefaultBackend)
	viper.SetDefault("store.api_key", DefaultAPIKey)
	viper.SetDefault("store.processing_delay_ms", DefaultProcessingDelayMs)

	viper.SetDefault("ingest.max_file_size", DefaultMaxIngestFileSize)
	viper.SetDefault("ingest.max_file_count", DefaultMaxIngestFileCount)

	viper.SetDefault("search.limit", DefaultSearchLimit)
	viper.SetDefault("search.threshold", DefaultSearchThreshold)

	viper.SetDefault("ignore", DefaultIgnorePatterns())
}

// findRCFile searches for .ragstorerc.yaml starting from current directory.
func findRCFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		rcPath := filepath.Join(dir, ".ragstorerc.yaml")
		if _, err := os.Stat(rcPath); err == nil {
			return rcPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// loadAPIKeysFromEnv loads API keys from environment variables if not
// already set.
func loadAPIKeysFromEnv() {
	if cfg.Store.OpenAI.APIKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.Store.OpenAI.APIKey = key
		}
	}
}

// SaveVectorStoreID records a newly created remote store id so later
// invocations reuse the same store. Written to the loaded config file,
// or the global one when none was loaded.
func SaveVectorStoreID(id string) error {
	viper.Set("store.openai.vector_store_id", id)

	path := ConfigFilePath()
	if path == "" {
		path = GlobalConfigPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if cfg != nil {
		cfg.Store.OpenAI.VectorStoreID = id
	}
	log.Debug("Saved vector store id", "id", id, "file", path)
	return nil
}

// ConfigFilePath returns the path of the loaded config file, or empty
// string if none.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
