// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

const linkColumns = `id, uuid, coordinates, srid`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (models.Link, error) {
	var (
		link   models.Link
		rawID  string
		coords string
	)
	if err := row.Scan(&link.ID, &rawID, &coords, &link.Geometry.SRID); err != nil {
		return models.Link{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.Link{}, fmt.Errorf("stored link uuid %q: %w", rawID, err)
	}
	link.UUID = id

	if err := json.Unmarshal([]byte(coords), &link.Geometry.Coordinates); err != nil {
		return models.Link{}, fmt.Errorf("stored link %d coordinates: %w", link.ID, err)
	}
	return link, nil
}

// ListLinks returns one page of links ordered by UUID byte order, starting at
// from inclusive. A nil from starts at the beginning.
func (db *DB) ListLinks(ctx context.Context, from *uuid.UUID, count int) (page keyset.Page[models.Link], err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "links", time.Since(start), err) }()

	lowerBound := ""
	if from != nil {
		lowerBound = from.String()
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE uuid >= ? ORDER BY uuid LIMIT ?`,
		lowerBound, keyset.FetchLimit(count))
	if err != nil {
		return page, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := make([]models.Link, 0, keyset.FetchLimit(count))
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return page, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return page, fmt.Errorf("error iterating links: %w", err)
	}

	return keyset.Split(links, count, func(l models.Link) string {
		return idcodec.Encode(l.UUID)
	}), nil
}

// GetLinkByUUID returns the link with the given public identifier.
func (db *DB) GetLinkByUUID(ctx context.Context, id uuid.UUID) (link models.Link, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "links", time.Since(start), err) }()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE uuid = ?`, id.String())
	link, err = scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Link{}, fmt.Errorf("%w: link %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Link{}, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

// CreateLinks inserts one link per geometry in a single transaction, each
// with a fresh random UUID. Geometries without an SRID get models.DefaultSRID.
func (db *DB) CreateLinks(ctx context.Context, geometries []models.LineString) (created []models.Link, err error) {
	if len(geometries) == 0 {
		return []models.Link{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("INSERT", "links", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (uuid, coordinates, srid) VALUES (?, ?, ?) RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer closeQuietly(stmt)

	created = make([]models.Link, 0, len(geometries))
	for _, geom := range geometries {
		if len(geom.Coordinates) < 2 {
			return nil, fmt.Errorf("%w: a link needs at least two points, got %d", ErrInvalidGeometry, len(geom.Coordinates))
		}
		if geom.SRID == 0 {
			geom.SRID = models.DefaultSRID
		}

		coords, encErr := json.Marshal(geom.Coordinates)
		if encErr != nil {
			return nil, fmt.Errorf("failed to encode coordinates: %w", encErr)
		}

		link := models.Link{UUID: uuid.New(), Geometry: geom}
		if err = stmt.QueryRowContext(ctx, link.UUID.String(), string(coords), geom.SRID).Scan(&link.ID); err != nil {
			return nil, wrapWriteError("insert link", err)
		}
		created = append(created, link)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit links: %w", err)
	}
	return created, nil
}

// LinkIDsByUUID maps public identifiers to internal ids. Identifiers with no
// matching link are absent from the result.
func (db *DB) LinkIDsByUUID(ctx context.Context, ids []uuid.UUID) (result map[uuid.UUID]int64, err error) {
	result = make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "links", time.Since(start), err) }()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, uuid FROM links WHERE uuid IN (`+strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query link ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			linkID int64
			rawID  string
		)
		if err := rows.Scan(&linkID, &rawID); err != nil {
			return nil, fmt.Errorf("failed to scan link id: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("stored link uuid %q: %w", rawID, err)
		}
		result[id] = linkID
	}
	return result, rows.Err()
}

// CountLinks returns the number of stored links.
func (db *DB) CountLinks(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}
