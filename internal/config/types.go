package config

import (
	"time"
)

// ApishellConfig is the top-level configuration structure for apishell.
type ApishellConfig struct {
	Stages map[string]StageEndpoints `yaml:"stages,omitempty"`
	Shell  ShellSettings             `yaml:"shell"`
	HTTP   HTTPSettings              `yaml:"http"`
}

// StageEndpoints holds the base URLs of the three backend APIs for one stage.
// Empty fields fall back to the built-in defaults when configs are merged.
type StageEndpoints struct {
	API       string `yaml:"api,omitempty"`       // Data API, e.g. "https://api.preview.marketplace.team"
	SearchAPI string `yaml:"searchAPI,omitempty"` // Search API
	CDPAPI    string `yaml:"cdpAPI,omitempty"`    // Central Digital Platform API
}

// Output formats understood by the shell's result renderer.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// ShellSettings configures the interactive shell.
type ShellSettings struct {
	HistoryFile  string `yaml:"historyFile,omitempty"`  // Path of the readline history file
	OutputFormat string `yaml:"outputFormat,omitempty"` // "json" or "yaml"
}

// HTTPSettings configures the API clients' HTTP layer.
type HTTPSettings struct {
	Timeout  time.Duration `yaml:"timeout,omitempty"`  // Per-request timeout, e.g. "30s"
	RetryMax *int          `yaml:"retryMax,omitempty"` // Maximum retries of failed reads; 0 disables retries
}

// Retries returns RetryMax, or 0 when it is unset.
func (h HTTPSettings) Retries() int {
	if h.RetryMax == nil {
		return 0
	}
	return *h.RetryMax
}
