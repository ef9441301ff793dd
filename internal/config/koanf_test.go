// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != "/data/trafficdb.duckdb" {
		t.Errorf("Database.Path = %q, want /data/trafficdb.duckdb", cfg.Database.Path)
	}
	if !cfg.Database.CircuitBreaker {
		t.Error("Database.CircuitBreaker should be true by default")
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.API.PageLimit != 20 {
		t.Errorf("API.PageLimit = %d, want 20", cfg.API.PageLimit)
	}
	if cfg.API.MaxDuration != 259200000*time.Millisecond {
		t.Errorf("API.MaxDuration = %v, want 72h", cfg.API.MaxDuration)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"HTTP_PORT", "server.port"},
		{"PUBLIC_URL", "server.public_url"},
		{"API_PAGE_LIMIT", "api.page_limit"},
		{"API_MAX_DURATION", "api.max_duration"},
		{"LINK_CACHE_SIZE", "api.link_cache_size"},
		{"LINK_CACHE_TTL", "api.link_cache_ttl"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"log_level", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("API_PAGE_LIMIT", "50")
	t.Setenv("API_MAX_DURATION", "24h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want :memory:", cfg.Database.Path)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.PageLimit != 50 {
		t.Errorf("API.PageLimit = %d, want 50", cfg.API.PageLimit)
	}
	if cfg.API.MaxDuration != 24*time.Hour {
		t.Errorf("API.MaxDuration = %v, want 24h", cfg.API.MaxDuration)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: /tmp/traffic.duckdb
server:
  port: 9000
  public_url: https://traffic.example.com
api:
  page_limit: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/traffic.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Server.PublicURL != "https://traffic.example.com" {
		t.Errorf("Server.PublicURL = %q", cfg.Server.PublicURL)
	}
	if cfg.API.PageLimit != 10 {
		t.Errorf("API.PageLimit = %d, want 10", cfg.API.PageLimit)
	}
	if cfg.API.MaxDuration != DefaultMaxDuration {
		t.Errorf("API.MaxDuration = %v, want default", cfg.API.MaxDuration)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty db path", func(c *Config) { c.Database.Path = " " }, "DUCKDB_PATH"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"relative public url", func(c *Config) { c.Server.PublicURL = "/api" }, "PUBLIC_URL"},
		{"zero page limit", func(c *Config) { c.API.PageLimit = 0 }, "API_PAGE_LIMIT"},
		{"zero max duration", func(c *Config) { c.API.MaxDuration = 0 }, "API_MAX_DURATION"},
		{"negative link cache size", func(c *Config) { c.API.LinkCacheSize = -1 }, "LINK_CACHE_SIZE"},
		{"link cache without ttl", func(c *Config) { c.API.LinkCacheTTL = 0 }, "LINK_CACHE_TTL"},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
