package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)

	// Store defaults
	assert.Equal(t, DefaultBackend, cfg.Store.Backend)
	assert.Equal(t, DefaultAPIKey, cfg.Store.APIKey)
	assert.Equal(t, DefaultProcessingDelayMs, cfg.Store.ProcessingDelayMs)

	// Ingest defaults
	assert.Equal(t, int64(DefaultMaxIngestFileSize), cfg.Ingest.MaxFileSize)
	assert.Equal(t, DefaultMaxIngestFileCount, cfg.Ingest.MaxFileCount)

	// Search defaults
	assert.Equal(t, DefaultSearchLimit, cfg.Search.Limit)
	assert.Equal(t, DefaultSearchThreshold, cfg.Search.Threshold)

	// Ignore patterns
	assert.NotEmpty(t, cfg.Ignore)
	assert.Contains(t, cfg.Ignore, "node_modules/")
	assert.Contains(t, cfg.Ignore, ".git/")
}

func TestDefaultIgnorePatterns(t *testing.T) {
	patterns := DefaultIgnorePatterns()

	assert.NotEmpty(t, patterns)

	expectedPatterns := []string{
		"*.lock",
		"node_modules/",
		".git/",
		"dist/",
		"*.exe",
		".DS_Store",
	}

	for _, expected := range expectedPatterns {
		assert.Contains(t, patterns, expected, "Expected pattern %s not found", expected)
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  backend: openai
  openai:
    api_key: sk-test
    vector_store_id: vs_test
search:
  limit: 25
  threshold: 0.4
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	require.NoError(t, Load(configPath))

	loaded := Get()
	assert.Equal(t, "openai", loaded.Store.Backend)
	assert.Equal(t, "sk-test", loaded.Store.OpenAI.APIKey)
	assert.Equal(t, "vs_test", loaded.Store.OpenAI.VectorStoreID)
	assert.Equal(t, 25, loaded.Search.Limit)
	assert.Equal(t, 0.4, loaded.Search.Threshold)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultProcessingDelayMs, loaded.Store.ProcessingDelayMs)
	assert.Equal(t, DefaultMaxIngestFileCount, loaded.Ingest.MaxFileCount)
}

func TestLoadPartialOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  processing_delay_ms: 50
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	require.NoError(t, Load(configPath))

	loaded := Get()
	assert.Equal(t, 50, loaded.Store.ProcessingDelayMs)
	assert.Equal(t, DefaultBackend, loaded.Store.Backend)
	assert.NotEmpty(t, loaded.Ignore)
}

func TestLoadInvalidFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("store: [not a map"), 0o644))

	assert.Error(t, Load(configPath))
}

func TestSaveVectorStoreID(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("store:\n  backend: openai\n"), 0o644))

	require.NoError(t, Load(configPath))
	require.NoError(t, SaveVectorStoreID("vs_persisted"))
	assert.Equal(t, "vs_persisted", Get().Store.OpenAI.VectorStoreID)

	// The id survives a reload.
	viper.Reset()
	require.NoError(t, Load(configPath))
	assert.Equal(t, "vs_persisted", Get().Store.OpenAI.VectorStoreID)
}

func TestOpenAIKeyFromEnv(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("store:\n  backend: openai\n"), 0o644))

	require.NoError(t, Load(configPath))
	assert.Equal(t, "sk-from-env", Get().Store.OpenAI.APIKey)
}
