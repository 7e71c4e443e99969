// Package config loads gateway configuration from an optional YAML file
// with environment-variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all gateway settings.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// Engine defaults, in basis points.
	FeeBps      uint16 `yaml:"fee_bps"`
	SlippageBps uint16 `yaml:"slippage_bps"`

	// Notional caps for intent building, in coins.
	MaxPerMarket   float64 `yaml:"max_per_market"`
	MaxPerCategory float64 `yaml:"max_per_category"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Port:            "8080",
		CacheTTLSeconds: 30,
		FeeBps:          30,
		SlippageBps:     100,
		MaxPerMarket:    1000,
		MaxPerCategory:  5000,
	}
}

// Load reads the YAML file at path (skipped when path is empty), then
// applies environment overrides. Environment always wins: deployments set
// PORT/DATABASE_URL/REDIS_URL without touching the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.FeeBps >= 10000 {
		return fmt.Errorf("config: fee_bps %d must be below 10000", c.FeeBps)
	}
	if c.SlippageBps > 10000 {
		return fmt.Errorf("config: slippage_bps %d must not exceed 10000", c.SlippageBps)
	}
	if c.MaxPerMarket <= 0 || c.MaxPerCategory <= 0 {
		return fmt.Errorf("config: notional caps must be positive")
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("config: cache_ttl_seconds must be positive")
	}
	return nil
}

// CacheTTL returns the cache expiry as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
