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

	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

// observationInsertChunk bounds the number of rows per multi-row INSERT.
const observationInsertChunk = 500

// observationRangeQuery selects observations of one type on n links within a
// half-open time window. Parameters are start, end, type, then the link ids.
func observationRangeQuery(n int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return `SELECT id, value, type, observed_at, link_id
		FROM observations
		WHERE observed_at >= ? AND observed_at < ?
			AND type = ?
			AND link_id IN (` + placeholders + `)
		ORDER BY observed_at, link_id`
}

// ObservationsForLink returns observations of one type on one link with
// start <= observed_at < end, ordered by observed_at.
func (db *DB) ObservationsForLink(ctx context.Context, linkID int64, typ models.ObservationType, start, end time.Time) ([]models.Observation, error) {
	return db.ObservationsForLinks(ctx, []int64{linkID}, typ, start, end)
}

// ObservationsForLinks returns observations of one type on any of the given
// links with start <= observed_at < end, ordered by observed_at then link.
func (db *DB) ObservationsForLinks(ctx context.Context, linkIDs []int64, typ models.ObservationType, start, end time.Time) (observations []models.Observation, err error) {
	observations = []models.Observation{}
	if len(linkIDs) == 0 || !end.After(start) {
		return observations, nil
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid observation type %d", int(typ))
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	queryStart := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "observations", time.Since(queryStart), err) }()

	args := make([]any, 0, len(linkIDs)+3)
	args = append(args, start.UTC(), end.UTC(), typ.String())
	for _, id := range linkIDs {
		args = append(args, id)
	}

	rows, err := db.conn.QueryContext(ctx, observationRangeQuery(len(linkIDs)), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o       models.Observation
			typName string
		)
		if err := rows.Scan(&o.ID, &o.Value, &typName, &o.ObservedAt, &o.LinkID); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		if o.Type, err = models.ParseObservationType(typName); err != nil {
			return nil, fmt.Errorf("stored observation %d: %w", o.ID, err)
		}
		o.ObservedAt = o.ObservedAt.UTC()
		observations = append(observations, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return observations, nil
}

// LinkObservations returns every channel's observations on one link within
// [start, end). Every channel is present in the result, possibly empty.
func (db *DB) LinkObservations(ctx context.Context, linkID int64, start, end time.Time) (map[models.ObservationType][]models.Observation, error) {
	result := make(map[models.ObservationType][]models.Observation, len(models.ObservationTypes))
	for _, typ := range models.ObservationTypes {
		obs, err := db.ObservationsForLink(ctx, linkID, typ, start, end)
		if err != nil {
			return nil, fmt.Errorf("%s observations: %w", typ, err)
		}
		result[typ] = obs
	}
	return result, nil
}

// ObservationDateRange returns the earliest and latest observed_at across all
// observations. Both bounds are nil when there are none.
func (db *DB) ObservationDateRange(ctx context.Context) (dr models.DateRange, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err) }()

	var minT, maxT sql.NullTime
	if err = db.conn.QueryRowContext(ctx,
		`SELECT MIN(observed_at), MAX(observed_at) FROM observations`).Scan(&minT, &maxT); err != nil {
		return dr, fmt.Errorf("failed to query observation date range: %w", err)
	}

	if minT.Valid {
		t := minT.Time.UTC()
		dr.Min = &t
	}
	if maxT.Valid {
		t := maxT.Time.UTC()
		dr.Max = &t
	}
	return dr, nil
}

// InsertObservations stores observations in one transaction. The ID field of
// the input is ignored. An observation on a missing link fails the whole
// batch with ErrIntegrityViolation.
func (db *DB) InsertObservations(ctx context.Context, observations []models.Observation) (inserted int, err error) {
	if len(observations) == 0 {
		return 0, nil
	}
	for i := range observations {
		if !observations[i].Type.Valid() {
			return 0, fmt.Errorf("observation %d: invalid type %d", i, int(observations[i].Type))
		}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("INSERT", "observations", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	for offset := 0; offset < len(observations); offset += observationInsertChunk {
		chunk := observations[offset:min(offset+observationInsertChunk, len(observations))]

		values := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*4)
		for i, o := range chunk {
			values[i] = "(?, ?, ?, ?)"
			args = append(args, o.Value, o.Type.String(), o.ObservedAt.UTC(), o.LinkID)
		}

		if _, err = tx.ExecContext(ctx,
			`INSERT INTO observations (value, type, observed_at, link_id) VALUES `+strings.Join(values, ", "),
			args...); err != nil {
			return 0, wrapWriteError("insert observations", err)
		}
		inserted += len(chunk)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit observations: %w", err)
	}

	logging.Debug().Int("count", inserted).Msg("Inserted observations")
	return inserted, nil
}
