package config

import (
	"path/filepath"
	"time"
)

// CLIConfig is the configuration for shardkv-cli.
type CLIConfig struct {
	// Server is the default server address.
	Server string `yaml:"server"`

	// Output is the default output format: table, json or yaml.
	Output string `yaml:"output"`

	// Timeout bounds each request.
	Timeout time.Duration `yaml:"timeout"`

	// HistoryFile stores shell history. Empty disables persistence.
	HistoryFile string `yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:      "localhost:8080",
		Output:      "table",
		Timeout:     10 * time.Second,
		HistoryFile: filepath.Join(configDir(), "history"),
	}
}
