package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the verdant daemon.
// Values are populated from .verdant.yaml, VERDANT_* env vars, and CLI flags.
type Config struct {
	Port          int    `mapstructure:"port"`
	IdleTimeoutMS int    `mapstructure:"idle_timeout_ms"`
	CatalogPath   string `mapstructure:"catalog_path"`
	StreamPath    string `mapstructure:"stream_path"`
	JournalPath   string `mapstructure:"journal_path"`
	SeedOnStart   bool   `mapstructure:"seed_on_start"`
	QueueSize     int    `mapstructure:"queue_size"`
}

// IdleTimeout returns the idle reset interval as a duration.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("port", 8474)
	viper.SetDefault("idle_timeout_ms", 300000)
	viper.SetDefault("catalog_path", "")
	viper.SetDefault("stream_path", ".verdant/events.jsonl")
	viper.SetDefault("journal_path", ".verdant/journal.db")
	viper.SetDefault("seed_on_start", true)
	viper.SetDefault("queue_size", 64)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
