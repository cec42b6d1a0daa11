// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package config

import (
	"testing"
	"time"
)

// validConfig returns a config that passes Validate, for mutation in tests.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Auth.ProviderURL = "http://localhost:3000"
	cfg.AI.APIKey = "test-key"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Relay.PollInterval != 5*time.Second {
		t.Errorf("default poll interval = %s, want 5s", cfg.Relay.PollInterval)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("default model = %q", cfg.AI.Model)
	}
	if cfg.AI.MaxOutputTokens != 512 {
		t.Errorf("default max output tokens = %d, want 512", cfg.AI.MaxOutputTokens)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, true},
		{"missing auth provider", func(c *Config) { c.Auth.ProviderURL = "" }, true},
		{"missing api key", func(c *Config) { c.AI.APIKey = "" }, true},
		{"zero poll interval", func(c *Config) { c.Relay.PollInterval = 0 }, true},
		{"negative temperature", func(c *Config) { c.AI.Temperature = -0.1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AUTH_PROVIDER_URL", "http://auth.internal:3000")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RELAY_POLL_INTERVAL", "2s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, exp://")
	t.Setenv("DUCKDB_PATH", t.TempDir()+"/test.duckdb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.ProviderURL != "http://auth.internal:3000" {
		t.Errorf("auth provider = %q", cfg.Auth.ProviderURL)
	}
	if cfg.Relay.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %s, want 2s", cfg.Relay.PollInterval)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "exp://" {
		t.Errorf("cors origins = %v", cfg.Security.CORSOrigins)
	}
}

func TestEnvTransformIgnoresUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("envTransformFunc(PATH) = %q, want empty", got)
	}
	if got := envTransformFunc("GEMINI_API_KEY"); got != "ai.api_key" {
		t.Errorf("envTransformFunc(GEMINI_API_KEY) = %q", got)
	}
}

func TestAddr(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := sc.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", got)
	}
}
