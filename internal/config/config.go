// Package config loads and validates jobsync configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Notion  NotionConfig  `mapstructure:"notion"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// NotionConfig holds the integration token and target database.
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
}

// FetchConfig controls the page fetch.
type FetchConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. A .env file in the working
// directory is read first when present.
func Load(path string) (Config, error) {
	// best-effort; credentials usually live in .env during local use
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JOBSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// bare names kept for .env compatibility
	_ = v.BindEnv("notion.token", "JOBSYNC_NOTION_TOKEN", "NOTION_TOKEN")
	_ = v.BindEnv("notion.database_id", "JOBSYNC_NOTION_DATABASE_ID", "NOTION_DATABASE_ID")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; jobsync/0.1)")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token must be set")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id must be set")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
