// Package config loads and validates the crimelens configuration from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/crimelens/crimelens/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the incident store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // sqlite database file path
}

// AnalysisConfig holds the analysis engine configuration
type AnalysisConfig struct {
	TimeRange       string        `mapstructure:"time_range"`       // default time-range tag
	MinConfidence   float64       `mapstructure:"min_confidence"`   // pattern confidence floor
	PollInterval    time.Duration `mapstructure:"poll_interval"`    // interval between runs in service mode
	ClusterDistance float64       `mapstructure:"cluster_distance"` // geographic cluster threshold, distance units
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`    // incident store query timeout
}

// NotifierConfig holds Telegram notification configuration
type NotifierConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	TopK           int           `mapstructure:"top_k"` // max patterns per digest
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("CRIMELENS")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "./data/crimelens.db")

	// Analysis defaults
	v.SetDefault("analysis.time_range", models.DefaultTimeRange)
	v.SetDefault("analysis.min_confidence", models.DefaultMinConfidence)
	v.SetDefault("analysis.poll_interval", "10m")
	v.SetDefault("analysis.cluster_distance", 1000.0)
	v.SetDefault("analysis.fetch_timeout", "30s")

	// Notifier defaults
	v.SetDefault("notifier.enabled", false)
	v.SetDefault("notifier.top_k", 5)
	v.SetDefault("notifier.max_retries", 3)
	v.SetDefault("notifier.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Database config
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Validate Analysis config
	switch c.Analysis.TimeRange {
	case models.Range7Days, models.Range30Days, models.Range90Days, models.Range1Year:
	default:
		return fmt.Errorf("analysis.time_range must be one of: 7days, 30days, 90days, 1year")
	}
	if c.Analysis.MinConfidence < 0.0 || c.Analysis.MinConfidence > 1.0 {
		return fmt.Errorf("analysis.min_confidence must be between 0.0 and 1.0")
	}
	if c.Analysis.PollInterval < 1*time.Minute {
		return fmt.Errorf("analysis.poll_interval must be at least 1 minute")
	}
	if c.Analysis.ClusterDistance <= 0 {
		return fmt.Errorf("analysis.cluster_distance must be positive")
	}
	if c.Analysis.FetchTimeout < 1*time.Second {
		return fmt.Errorf("analysis.fetch_timeout must be at least 1 second")
	}

	// Validate Notifier config
	if c.Notifier.Enabled {
		if c.Notifier.BotToken == "" {
			return fmt.Errorf("notifier.bot_token is required when notifier is enabled")
		}
		if c.Notifier.ChatID == "" {
			return fmt.Errorf("notifier.chat_id is required when notifier is enabled")
		}
		if c.Notifier.TopK < 1 {
			return fmt.Errorf("notifier.top_k must be at least 1")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}
