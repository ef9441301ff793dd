// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

const (
	// aliasStagingTable holds the names of one resolve call. It is a temporary
	// table, so it is private to the connection the transaction runs on.
	aliasStagingTable = "alias_resolution_staging"

	// resolveAttempts bounds retries when creating the staging table races
	// with a concurrent catalog change.
	resolveAttempts = 3
)

// resolveJoinQuery pairs every staged name with its target, if any.
const resolveJoinQuery = `SELECT s.name, t.link_uuid
	FROM ` + aliasStagingTable + ` s
	LEFT JOIN link_alias_targets t ON t.name = s.name`

// ListLinkAliases returns one page of aliases ordered by name, starting at
// from inclusive. Any string is a valid lower bound.
func (db *DB) ListLinkAliases(ctx context.Context, from *string, count int) (page keyset.Page[models.LinkAlias], err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "link_aliases", time.Since(start), err) }()

	lowerBound := ""
	if from != nil {
		lowerBound = *from
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT a.id, a.name, a.link_id, l.uuid
		FROM link_aliases a
		JOIN links l ON a.link_id = l.id
		WHERE a.name >= ?
		ORDER BY a.name
		LIMIT ?`, lowerBound, keyset.FetchLimit(count))
	if err != nil {
		return page, fmt.Errorf("failed to query link aliases: %w", err)
	}
	defer rows.Close()

	aliases := make([]models.LinkAlias, 0, keyset.FetchLimit(count))
	for rows.Next() {
		var (
			a     models.LinkAlias
			rawID string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.LinkID, &rawID); err != nil {
			return page, fmt.Errorf("failed to scan link alias: %w", err)
		}
		if a.LinkUUID, err = uuid.Parse(rawID); err != nil {
			return page, fmt.Errorf("stored link uuid %q: %w", rawID, err)
		}
		aliases = append(aliases, a)
	}
	if err = rows.Err(); err != nil {
		return page, fmt.Errorf("error iterating link aliases: %w", err)
	}

	return keyset.Split(aliases, count, func(a models.LinkAlias) string { return a.Name }), nil
}

// AliasNamesForLink returns the names of every alias of one link, ordered.
func (db *DB) AliasNamesForLink(ctx context.Context, linkID int64) (names []string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "link_aliases", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT name FROM link_aliases WHERE link_id = ? ORDER BY name`, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alias names: %w", err)
	}
	defer rows.Close()

	names = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan alias name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateLinkAliases inserts aliases in one transaction. A duplicate name or a
// link UUID with no matching link fails the whole batch with
// ErrIntegrityViolation.
func (db *DB) CreateLinkAliases(ctx context.Context, aliases []models.NewLinkAlias) (created []models.LinkAlias, err error) {
	if len(aliases) == 0 {
		return []models.LinkAlias{}, nil
	}

	ids := make([]uuid.UUID, len(aliases))
	for i, a := range aliases {
		ids[i] = a.LinkUUID
	}
	linkIDs, err := db.LinkIDsByUUID(ctx, ids)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("INSERT", "link_aliases", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO link_aliases (name, link_id) VALUES (?, ?) RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare alias insert: %w", err)
	}
	defer closeQuietly(stmt)

	created = make([]models.LinkAlias, 0, len(aliases))
	for _, a := range aliases {
		linkID, ok := linkIDs[a.LinkUUID]
		if !ok {
			return nil, fmt.Errorf("%w: alias %q refers to unknown link %s", ErrIntegrityViolation, a.Name, a.LinkUUID)
		}

		alias := models.LinkAlias{Name: a.Name, LinkID: linkID, LinkUUID: a.LinkUUID}
		if err = stmt.QueryRowContext(ctx, a.Name, linkID).Scan(&alias.ID); err != nil {
			return nil, wrapWriteError(fmt.Sprintf("insert alias %q", a.Name), err)
		}
		created = append(created, alias)
	}

	if err = tx.Commit(); err != nil {
		return nil, wrapWriteError("commit aliases", err)
	}
	return created, nil
}

// ResolveLinkAliases resolves a batch of names to link UUIDs.
//
// The result has one entry per input name in input order, duplicates
// included. Names with no alias resolve to a nil LinkUUID. An empty input
// returns without touching storage.
func (db *DB) ResolveLinkAliases(ctx context.Context, names []string) (resolutions []models.AliasResolution, err error) {
	resolutions = make([]models.AliasResolution, 0, len(names))
	if len(names) == 0 {
		return resolutions, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "link_aliases", time.Since(start), err) }()

	var targets map[string]uuid.UUID
	for attempt := 1; attempt <= resolveAttempts; attempt++ {
		targets, err = db.resolveOnce(ctx, names)
		if err == nil || !isCatalogConflict(err) {
			break
		}
		logging.Debug().Err(err).Int("attempt", attempt).Msg("Retrying alias resolution after catalog conflict")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve link aliases: %w", err)
	}

	resolved := 0
	for _, name := range names {
		r := models.AliasResolution{Name: name}
		if id, ok := targets[name]; ok {
			r.LinkUUID = &id
			resolved++
		}
		resolutions = append(resolutions, r)
	}
	metrics.RecordAliasResolve(len(names), resolved)
	return resolutions, nil
}

// resolveOnce stages the distinct names in a temporary table and joins them
// against the alias targets in a single transaction, so the staging table and
// the join share one connection.
func (db *DB) resolveOnce(ctx context.Context, names []string) (targets map[string]uuid.UUID, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	distinct := distinctNames(names)
	if err = stageNames(ctx, tx, distinct); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, resolveJoinQuery)
	if err != nil {
		return nil, fmt.Errorf("join staged names: %w", err)
	}

	targets = make(map[string]uuid.UUID, len(distinct))
	for rows.Next() {
		var (
			name  string
			rawID sql.NullString
		)
		if err = rows.Scan(&name, &rawID); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		if !rawID.Valid {
			continue
		}
		id, parseErr := uuid.Parse(rawID.String)
		if parseErr != nil {
			closeQuietly(rows)
			err = fmt.Errorf("stored link uuid %q: %w", rawID.String, parseErr)
			return nil, err
		}
		targets[name] = id
	}
	if err = rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("iterate resolutions: %w", err)
	}
	closeQuietly(rows)

	if _, err = tx.ExecContext(ctx, `DROP TABLE `+aliasStagingTable); err != nil {
		return nil, fmt.Errorf("drop staging table: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit resolution: %w", err)
	}
	return targets, nil
}

// stageNames creates the staging table if needed, empties it and inserts names.
// names must not contain duplicates.
func stageNames(ctx context.Context, tx *sql.Tx, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`CREATE TEMPORARY TABLE IF NOT EXISTS `+aliasStagingTable+` (name VARCHAR PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+aliasStagingTable); err != nil {
		return fmt.Errorf("clear staging table: %w", err)
	}

	values := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		values[i] = "(?)"
		args[i] = name
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+aliasStagingTable+` (name) VALUES `+strings.Join(values, ", "), args...); err != nil {
		return fmt.Errorf("stage names: %w", err)
	}
	return nil
}

// distinctNames returns names with duplicates removed, keeping first occurrence order.
func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
