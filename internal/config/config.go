// Package config loads daemon configuration from an optional YAML file
// overlaid with ONCOURT_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full daemon configuration.
type Config struct {
	Teams  []string `koanf:"teams"`
	Season string   `koanf:"season"`

	HTTP struct {
		Addr   string `koanf:"addr"`
		WSAddr string `koanf:"ws_addr"`
	} `koanf:"http"`

	Store struct {
		// Backend is "file" or "postgres".
		Backend     string `koanf:"backend"`
		Dir         string `koanf:"dir"`
		PostgresDSN string `koanf:"postgres_dsn"`
	} `koanf:"store"`

	Redis struct {
		Enabled bool   `koanf:"enabled"`
		URL     string `koanf:"url"`
	} `koanf:"redis"`

	Ingest struct {
		Concurrency int `koanf:"concurrency"`
	} `koanf:"ingest"`

	Roster struct {
		EnrichEnabled bool `koanf:"enrich_enabled"`
	} `koanf:"roster"`

	Scheduler struct {
		Enabled bool `koanf:"enabled"`
		// Hour is the local hour of day for the daily update pass.
		Hour int `koanf:"hour"`
	} `koanf:"scheduler"`
}

// Load reads configuration with precedence: defaults, then the YAML file
// named by ONCOURT_CONFIG (if set), then ONCOURT_ environment variables.
// ONCOURT_STORE_BACKEND=postgres maps to store.backend, and so on.
func Load() (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path := os.Getenv("ONCOURT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("ONCOURT_", ".", func(s string) string {
		key := strings.TrimPrefix(s, "ONCOURT_")
		if key == "CONFIG" {
			return ""
		}
		return strings.Replace(strings.ToLower(key), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Season = "2025-26"
	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.WSAddr = ":8081"
	cfg.Store.Backend = "file"
	cfg.Store.Dir = "data"
	cfg.Redis.URL = "redis://localhost:6379/0"
	cfg.Ingest.Concurrency = 1
	cfg.Scheduler.Hour = 6
	return cfg
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file":
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the file backend")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Scheduler.Hour < 0 || c.Scheduler.Hour > 23 {
		return fmt.Errorf("scheduler.hour must be within 0-23")
	}
	return nil
}
