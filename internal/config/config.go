// Package config provides configuration loading and validation for the CLI
// and the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Script string `json:"script,omitempty"` // Path to source script text file
	Output string `json:"output,omitempty"` // Output directory for generated artifacts

	// Generation
	Style    string `json:"style,omitempty"`     // Visual style preset name
	RowCount int    `json:"row_count,omitempty"` // Storyboard rows per segment
	Language string `json:"language,omitempty"`  // Target language for subtitle translation

	// Behavior
	APIKey       string `json:"api_key,omitempty"`       // Gemini API key(s), newline-delimited
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL
	SealingKey   string `json:"sealing_key,omitempty"`   // Base64 key for the credential store
	DelaySeconds int    `json:"delay_seconds,omitempty"` // Pause between upstream calls
	StageRetries int    `json:"stage_retries,omitempty"` // Extra attempts per failed stage
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.RowCount < 0 {
		return fmt.Errorf("config error: 'row_count' must be non-negative")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("config error: 'delay_seconds' must be non-negative")
	}
	if c.StageRetries < 0 {
		return fmt.Errorf("config error: 'stage_retries' must be non-negative")
	}

	if c.Script != "" {
		if _, err := os.Stat(c.Script); os.IsNotExist(err) {
			return fmt.Errorf("config error: script file not found: %s", c.Script)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Script == "" {
		result.Script = defaults.Script
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Style == "" {
		result.Style = defaults.Style
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SealingKey == "" {
		result.SealingKey = defaults.SealingKey
	}

	if result.RowCount == 0 {
		result.RowCount = defaults.RowCount
	}
	if result.DelaySeconds == 0 {
		result.DelaySeconds = defaults.DelaySeconds
	}
	if result.StageRetries == 0 {
		result.StageRetries = defaults.StageRetries
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
