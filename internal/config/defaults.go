package config

import (
	"os"
	"path/filepath"
)

// Default configuration values
const (
	// Store defaults
	DefaultBackend           = "memory"
	DefaultAPIKey            = "local"
	DefaultProcessingDelayMs = 200

	// Ingestion defaults. The walker cap is far below the 512 MiB contract
	// limit; files that large are never worth keyword-indexing whole.
	DefaultMaxIngestFileSize  = 1 << 20 // 1MB
	DefaultMaxIngestFileCount = 10000

	// Search defaults
	DefaultSearchLimit     = 10
	DefaultSearchThreshold = 0.0
)

// DefaultIgnorePatterns returns the default list of file patterns to
// ignore during directory ingestion.
func DefaultIgnorePatterns() []string {
	return []string{
		// Lock files
		"*.lock",
		"package-lock.json",
		"yarn.lock",
		"pnpm-lock.yaml",
		"Cargo.lock",
		"go.sum",
		"poetry.lock",

		// Build outputs
		"dist/",
		"build/",
		"out/",
		"target/",
		"__pycache__/",
		"*.pyc",

		// Dependencies
		"node_modules/",
		"vendor/",
		".venv/",
		"venv/",

		// IDE/Editor
		".idea/",
		".vscode/",
		"*.swp",
		"*~",

		// Version control
		".git/",
		".svn/",
		".hg/",

		// Binary/compiled
		"*.exe",
		"*.dll",
		"*.so",
		"*.dylib",
		"*.o",
		"*.a",
		"*.class",

		// Media
		"*.jpg",
		"*.jpeg",
		"*.png",
		"*.gif",
		"*.ico",
		"*.svg",
		"*.mp3",
		"*.mp4",
		"*.pdf",

		// Archives
		"*.zip",
		"*.tar",
		"*.tar.gz",
		"*.tgz",
		"*.rar",
		"*.7z",

		// Minified
		"*.min.js",
		"*.min.css",
		"*.map",

		// Misc
		".DS_Store",
		"Thumbs.db",
		".env",
		".env.*",
		"*.log",
	}
}

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/ragstore"
	}
	return filepath.Join(home, ".config", "ragstore")
}
