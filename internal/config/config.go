// Package config provides configuration management for the ETL pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources              = errors.New("at least one source is required")
	ErrSourceMissingURLOrFile = errors.New("either url or file path is required")
	ErrNoEnabledSources       = errors.New("at least one source must be enabled")
	ErrInvalidMaxAttempts     = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay    = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoff         = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout         = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputPath      = errors.New("output.path is required")
	ErrInvalidOutputFormat    = errors.New("output.format must be 'json' or 'jsonl'")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete ETL configuration.
type Config struct {
	ETL ETLConfig `yaml:"etl"`
}

// ETLConfig contains pipeline settings.
type ETLConfig struct {
	Source  string         `yaml:"source"`
	Output  OutputConfig   `yaml:"output"`
	Push    PushConfig     `yaml:"push"`
	Logging LoggingConfig  `yaml:"logging"`
	Retry   RetryPolicy    `yaml:"retry"`
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig represents one XML input, either a local file or a URL.
type SourceConfig struct {
	URL     string `yaml:"url"`
	File    string `yaml:"file"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// IsLocalFile returns true if this source reads a local file.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// Location returns the file path if local, or the URL otherwise.
func (s *SourceConfig) Location() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// OutputConfig defines where parsed articles are written.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// PushConfig defines the optional index endpoint.
type PushConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Enabled  bool   `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RetryPolicy defines retry behavior for remote sources.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// DefaultRetryPolicy returns the retry policy used when no config file
// is supplied.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
	}
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.ETL.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, src := range c.ETL.Sources {
		if src.URL == "" && src.File == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingURLOrFile, i)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.ETL.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.ETL.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.ETL.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoff
	}

	if c.ETL.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.ETL.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.ETL.Output.Format != "json" && c.ETL.Output.Format != "jsonl" {
		return ErrInvalidOutputFormat
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.ETL.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// EnabledSources returns only enabled sources.
func (c *Config) EnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.ETL.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// RetryDelay calculates the exponential backoff delay for an attempt.
func (rp *RetryPolicy) RetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if rp.MaxDelayMs > 0 && int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// Timeout returns the per-request timeout duration.
func (rp *RetryPolicy) Timeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a short description of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, MaxAttempts: %d, Output: %s}",
		len(c.ETL.Sources),
		c.ETL.Retry.MaxAttempts,
		c.ETL.Output.Path,
	)
}
