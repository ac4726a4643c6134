// Package config holds all lifewheel configuration, layered as
// defaults overridden by LIFEWHEEL_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all lifewheel configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Bind string `env:"LIFEWHEEL_BIND"`
	Port int    `env:"LIFEWHEEL_PORT"`
}

type DatabaseConfig struct {
	// Path to the SQLite file; empty resolves to store.DefaultDBPath().
	Path string `env:"LIFEWHEEL_DB"`
}

type EngineConfig struct {
	// DomainTimeout bounds each per-domain collector query.
	DomainTimeout time.Duration `env:"LIFEWHEEL_DOMAIN_TIMEOUT"`
	// WindowDays is the activity lookback for time and money stats.
	WindowDays int `env:"LIFEWHEEL_WINDOW_DAYS"`
	// Deadband is the |skew| treated as balanced.
	Deadband int `env:"LIFEWHEEL_DEADBAND"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Engine: EngineConfig{
			DomainTimeout: 3 * time.Second,
			WindowDays:    30,
			Deadband:      5,
		},
	}
}

// Load returns defaults overridden by environment variables.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Window returns the engine lookback as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Engine.WindowDays) * 24 * time.Hour
}
