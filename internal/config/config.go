// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package config

import "time"

const (
	// DefaultPageLimit is the largest page any collection endpoint returns.
	// It also bounds the number of names in one alias resolve request.
	DefaultPageLimit = 20

	// DefaultMaxDuration is the widest observation window a client may request.
	DefaultMaxDuration = 72 * time.Hour
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
	Security SecurityConfig `koanf:"security"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedTestData           bool   `koanf:"seed_test_data"`           // Populate fake links, observations and aliases on startup
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip secondary index creation (fast test setup)
	CircuitBreaker         bool   `koanf:"circuit_breaker"`          // Wrap storage calls in a circuit breaker
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// PublicURL is the externally visible base URL, e.g. https://traffic.example.com.
	// When empty, absolute URLs are derived from each request's scheme and host.
	PublicURL string `koanf:"public_url"`
}

// APIConfig holds pagination and query window limits
type APIConfig struct {
	PageLimit   int           `koanf:"page_limit"`
	MaxDuration time.Duration `koanf:"max_duration"`

	// Links are immutable once created, so lookups by public id are cached
	// in-process. A size of 0 disables the cache.
	LinkCacheSize int           `koanf:"link_cache_size"`
	LinkCacheTTL  time.Duration `koanf:"link_cache_ttl"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
