// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package main is the trafficdb HTTP server.

It serves a read-mostly JSON API over road links, their traffic observations
and the alias names that point at them. Everything is stored in one embedded
DuckDB database.

# Application Architecture

	RootSupervisor ("trafficdb")
	├── StorageSupervisor ("storage-layer")
	│   └── DuckDB checkpoint service
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog
 3. Database: DuckDB schema and versioned migrations, optional test data
 4. Storage circuit breaker (gobreaker), unless DB_CIRCUIT_BREAKER=false
 5. Chi router with CORS, rate limiting and Prometheus metrics
 6. Supervisor tree (suture v4)

# Configuration

	Priority: Environment variables > Config file > Defaults

	DUCKDB_PATH=/data/trafficdb.duckdb
	HTTP_PORT=5000
	PUBLIC_URL=https://traffic.example.com
	API_PAGE_LIMIT=20
	API_MAX_DURATION=72h
	SEED_TEST_DATA=false
	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at an explicit YAML file.

# Signal Handling

SIGINT or SIGTERM cancels the root context. The HTTP server stops accepting
connections and drains in-flight requests for HTTP_SHUTDOWN_TIMEOUT, then
the database is closed.
*/
package main
