// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package config provides centralized configuration management for trafficdb.

Configuration is layered with koanf. Values are applied in this order, and
each layer overrides the one before it:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/trafficdb/config.yaml)
 3. Environment variables, mapped through an explicit table

# Environment Variables

Database (DatabaseConfig):
  - DUCKDB_PATH: Database file path (default: /data/trafficdb.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: Worker threads, 0 means NumCPU (default: 0)
  - SEED_TEST_DATA: Populate fake links and observations on startup (default: false)
  - DB_CIRCUIT_BREAKER: Wrap storage in a circuit breaker (default: true)

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 5000)
  - HTTP_TIMEOUT: Read and write timeout (default: 30s)
  - PUBLIC_URL: Base URL used for absolute links in responses (default: derived from request)

API (APIConfig):
  - API_PAGE_LIMIT: Maximum page size for collections and resolve batches (default: 20)
  - API_MAX_DURATION: Maximum observation window (default: 72h)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

Security (SecurityConfig):
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS: Requests per window per client IP (default: 100)
  - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: Turn off rate limiting (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
