// Package config loads server configuration from the environment.
// The JWT secret lives here and nowhere else: issuer and verifier both
// receive the same value, so they cannot silently diverge.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/rizquez/usersvc/internal/crypto"
)

// Storage backend names accepted in Config.Storage.
const (
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
)

// Config holds all server settings.
type Config struct {
	Addr       string        `env:"USERSVC_ADDR" envDefault:":8080"`
	Storage    string        `env:"USERSVC_STORAGE" envDefault:"sqlite"`
	DBPath     string        `env:"USERSVC_DB_PATH" envDefault:"usersvc.db"`
	JWTSecret  string        `env:"USERSVC_JWT_SECRET"`
	TokenTTL   time.Duration `env:"USERSVC_TOKEN_TTL" envDefault:"1h"`
	BcryptCost int           `env:"USERSVC_BCRYPT_COST"`
	LogLevel   string        `env:"USERSVC_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = crypto.DefaultCost
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings a misconfigured process must not run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("USERSVC_JWT_SECRET is required")
	}

	if c.Storage != StorageSQLite && c.Storage != StorageBolt {
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage, StorageSQLite, StorageBolt)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}

	return nil
}
