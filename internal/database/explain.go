// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/trafficdb/internal/models"
)

// duckdbTimestampLayout formats a TIMESTAMP literal.
const duckdbTimestampLayout = "2006-01-02 15:04:05.999999"

// ExplainObservations runs EXPLAIN ANALYZE over the time-range query for the
// given links and returns the rendered plan.
func (db *DB) ExplainObservations(ctx context.Context, linkIDs []int64, typ models.ObservationType, start, end time.Time) (string, error) {
	if len(linkIDs) == 0 {
		return "", fmt.Errorf("explain observations: no link ids")
	}
	if !typ.Valid() {
		return "", fmt.Errorf("explain observations: invalid type %d", int(typ))
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// EXPLAIN does not take bound parameters, so the placeholders are
	// replaced with literals. Every value here is generated, not user text.
	literals := []string{
		timestampLiteral(start),
		timestampLiteral(end),
		quoteLiteral(typ.String()),
	}
	for _, id := range linkIDs {
		literals = append(literals, strconv.FormatInt(id, 10))
	}

	return db.explain(ctx, db.conn, inlineParams(observationRangeQuery(len(linkIDs)), literals))
}

// ExplainAliasResolution stages names exactly as ResolveLinkAliases does and
// returns the EXPLAIN ANALYZE plan of the join against the alias targets.
func (db *DB) ExplainAliasResolution(ctx context.Context, names []string) (plan string, err error) {
	if len(names) == 0 {
		return "", fmt.Errorf("explain alias resolution: no names")
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Nothing is kept, so the transaction always rolls back.
	defer func() { _ = tx.Rollback() }()

	if err = stageNames(ctx, tx, distinctNames(names)); err != nil {
		return "", err
	}
	return db.explain(ctx, tx, resolveJoinQuery)
}

// SampleLinkIDs returns up to n internal link ids in id order.
func (db *DB) SampleLinkIDs(ctx context.Context, n int) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT id FROM links ORDER BY id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample links: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan link id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SampleAliasNames returns up to n alias names chosen at random.
func (db *DB) SampleAliasNames(ctx context.Context, n int) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM link_aliases ORDER BY random() LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample alias names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan alias name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (db *DB) explain(ctx context.Context, q queryer, query string) (string, error) {
	rows, err := q.QueryContext(ctx, "EXPLAIN ANALYZE "+query)
	if err != nil {
		return "", fmt.Errorf("explain failed: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", fmt.Errorf("failed to scan plan: %w", err)
		}
		b.WriteString(value)
		if !strings.HasSuffix(value, "\n") {
			b.WriteByte('\n')
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating plan: %w", err)
	}
	return b.String(), nil
}

// inlineParams replaces each ? in query with the matching literal, in order.
func inlineParams(query string, literals []string) string {
	var b strings.Builder
	i := 0
	for _, r := range query {
		if r == '?' && i < len(literals) {
			b.WriteString(literals[i])
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func timestampLiteral(t time.Time) string {
	return "TIMESTAMP '" + t.UTC().Format(duckdbTimestampLayout) + "'"
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
