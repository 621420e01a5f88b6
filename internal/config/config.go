// Package config loads server configuration from the environment.
//
// A .env file in the working directory is loaded first (development
// convenience); real environment variables always win.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DefaultLang  string `env:"DEFAULT_LANG" envDefault:"ja"`
	DailySalt    string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	// SessionTTL is how long an idle session keeps its round in memory.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	Log  LogConfig
	DB   DBConfig
	Auth AuthConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // "console" or "json"
}

// DBConfig holds database configuration. With Enabled false the server
// runs without the ledger and player accounts.
type DBConfig struct {
	Enabled bool   `env:"DB_ENABLED" envDefault:"true"`
	Path    string `env:"DB_PATH" envDefault:"./data/app.db"`
}

// AuthConfig holds token and cookie settings.
type AuthConfig struct {
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"numberguess_token"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.Auth.JWTExpiresDays <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", cfg.Auth.JWTExpiresDays)
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// Addr returns the listen address.
func (c *Config) Addr() string { return ":" + c.Port }
