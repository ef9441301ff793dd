// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Link UUIDs are stored as canonical lowercase hyphenated text. Lexicographic
// order of that text equals byte order of the UUID, which is the order link
// pages are served in.
//
// Timestamps are stored as UTC TIMESTAMP values.
var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS links_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS links (
		id BIGINT PRIMARY KEY DEFAULT nextval('links_id_seq'),
		uuid VARCHAR NOT NULL UNIQUE,
		coordinates VARCHAR NOT NULL,
		srid INTEGER NOT NULL DEFAULT 27700
	)`,

	`CREATE SEQUENCE IF NOT EXISTS observations_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS observations (
		id BIGINT PRIMARY KEY DEFAULT nextval('observations_id_seq'),
		value DOUBLE NOT NULL,
		type VARCHAR NOT NULL CHECK (type IN ('SPEED', 'FLOW', 'OCCUPANCY')),
		observed_at TIMESTAMP NOT NULL,
		link_id BIGINT NOT NULL REFERENCES links(id)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS link_aliases_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS link_aliases (
		id BIGINT PRIMARY KEY DEFAULT nextval('link_aliases_id_seq'),
		name VARCHAR NOT NULL UNIQUE,
		link_id BIGINT NOT NULL REFERENCES links(id)
	)`,
}

// indexQueries are secondary indexes for the time-range and alias queries.
var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS ix_observation_observed_at ON observations(observed_at)`,
	`CREATE INDEX IF NOT EXISTS ix_observation_observed_at_link_id ON observations(observed_at, link_id)`,
	`CREATE INDEX IF NOT EXISTS ix_link_aliases_link_id ON link_aliases(link_id)`,
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}
