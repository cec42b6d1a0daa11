// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package config holds all application configuration, loaded with Koanf v2
// from three layered sources (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all settings for the Aerowatch server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	AI       AIConfig       `koanf:"ai"`
	Relay    RelayConfig    `koanf:"relay"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_HOST: bind address (default 0.0.0.0)
//   - HTTP_PORT: listen port (default 8000)
//   - HTTP_TIMEOUT: read/write timeout (default 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment variables:
//   - DUCKDB_PATH: database file path (default /data/aerowatch.duckdb)
//   - DUCKDB_MAX_MEMORY: memory limit (default 1GB)
//   - DUCKDB_THREADS: worker threads, 0 = NumCPU (default 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// AuthConfig holds settings for the external session provider. Aerowatch does
// not implement authentication itself; it forwards request credentials to the
// provider and trusts the session it returns.
//
// Environment variables:
//   - AUTH_PROVIDER_URL: base URL of the session provider (required)
//   - AUTH_TIMEOUT: per-request timeout for session lookups (default 10s)
type AuthConfig struct {
	ProviderURL string        `koanf:"provider_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

// AIConfig holds settings for the completion provider used by the chat
// assistant.
//
// Environment variables:
//   - GEMINI_API_KEY: provider API key (required)
//   - GEMINI_MODEL: model name (default gemini-2.0-flash)
//   - GEMINI_BASE_URL: API base URL override, mainly for tests
//   - GEMINI_TIMEOUT: per-request timeout (default 60s)
type AIConfig struct {
	APIKey          string        `koanf:"api_key"`
	Model           string        `koanf:"model"`
	BaseURL         string        `koanf:"base_url"`
	Timeout         time.Duration `koanf:"timeout"`
	Temperature     float64       `koanf:"temperature"`
	TopK            int           `koanf:"top_k"`
	TopP            float64       `koanf:"top_p"`
	MaxOutputTokens int           `koanf:"max_output_tokens"`
}

// RelayConfig holds settings for the sensor change poller.
//
// Environment variables:
//   - RELAY_POLL_INTERVAL: poll cadence (default 5s)
type RelayConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
//
// Environment variables:
//   - CORS_ORIGINS: comma-separated allowed origins (default *)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: request budget per client IP
//   - RATE_LIMIT_DISABLED: disable rate limiting entirely
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
//
// Environment variables:
//   - LOG_LEVEL: debug, info, warn, error (default info)
//   - LOG_FORMAT: json, console (default json)
//   - LOG_CALLER: include caller file:line (default false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent the server
// from operating. It is called by Load(); direct construction in tests may
// skip it.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.ProviderURL == "" {
		return fmt.Errorf("auth.provider_url is required")
	}
	if _, err := url.Parse(c.Auth.ProviderURL); err != nil {
		return fmt.Errorf("auth.provider_url is not a valid URL: %w", err)
	}
	if c.Relay.PollInterval <= 0 {
		return fmt.Errorf("relay.poll_interval must be positive, got %s", c.Relay.PollInterval)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be in [0, 2], got %g", c.AI.Temperature)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
