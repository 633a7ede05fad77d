package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type GraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type EngineConfig struct {
	ConfidenceFloor  float64 `toml:"confidence_floor"`
	ContentThreshold float64 `toml:"content_threshold"`
}

type CacheConfig struct {
	TTLSeconds     int `toml:"ttl_seconds"`
	CleanupSeconds int `toml:"cleanup_seconds"`
}

type Config struct {
	Graph    GraphConfig    `toml:"graph"`
	Database DatabaseConfig `toml:"database"`
	Engine   EngineConfig   `toml:"engine"`
	Cache    CacheConfig    `toml:"cache"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// Default returns a runnable configuration for when no config file exists.
func Default() *Config {
	return &Config{
		Graph:    GraphConfig{URI: "bolt://localhost:7687"},
		Database: DatabaseConfig{Path: "lattice.db"},
		Engine:   EngineConfig{ConfidenceFloor: 0.5, ContentThreshold: 0.6},
		Cache:    CacheConfig{TTLSeconds: 300, CleanupSeconds: 600},
	}
}
