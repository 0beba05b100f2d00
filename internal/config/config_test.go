package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Port", cfg.Port, 8474},
		{"IdleTimeoutMS", cfg.IdleTimeoutMS, 300000},
		{"CatalogPath", cfg.CatalogPath, ""},
		{"StreamPath", cfg.StreamPath, ".verdant/events.jsonl"},
		{"JournalPath", cfg.JournalPath, ".verdant/journal.db"},
		{"SeedOnStart", cfg.SeedOnStart, true},
		{"QueueSize", cfg.QueueSize, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestIdleTimeout(t *testing.T) {
	resetViper()

	cfg := Load()
	if got := cfg.IdleTimeout(); got != 5*time.Minute {
		t.Errorf("IdleTimeout() = %v, want 5m", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "port",
			envKey: "VERDANT_PORT",
			envVal: "9000",
			field:  func(c Config) any { return c.Port },
			want:   9000,
		},
		{
			name:   "idle_timeout_ms",
			envKey: "VERDANT_IDLE_TIMEOUT_MS",
			envVal: "60000",
			field:  func(c Config) any { return c.IdleTimeoutMS },
			want:   60000,
		},
		{
			name:   "catalog_path",
			envKey: "VERDANT_CATALOG_PATH",
			envVal: "/etc/verdant/catalog.toml",
			field:  func(c Config) any { return c.CatalogPath },
			want:   "/etc/verdant/catalog.toml",
		},
		{
			name:   "seed_on_start",
			envKey: "VERDANT_SEED_ON_START",
			envVal: "false",
			field:  func(c Config) any { return c.SeedOnStart },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("VERDANT")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := Load()
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}
