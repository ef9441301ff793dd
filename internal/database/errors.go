// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/trafficdb/internal/logging"
)

var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIntegrityViolation is returned when a write would break a uniqueness
	// or foreign key rule: a duplicate alias name, a reference to a missing
	// link, or an observation on a missing link.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrInvalidGeometry is returned when a link geometry cannot be stored,
	// such as a line with fewer than two points.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrStorageUnavailable is returned when storage calls are being
	// short-circuited after repeated failures.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// isConstraintError reports whether err is a DuckDB constraint violation.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var duckErr *duckdb.Error
	if errors.As(err, &duckErr) && duckErr.Type == duckdb.ErrorTypeConstraint {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "constraint error") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "foreign key")
}

// isCatalogConflict reports whether err is a concurrent catalog write, such
// as two connections racing to create the same relation.
func isCatalogConflict(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "already exists") ||
		strings.Contains(errMsg, "Catalog write-write conflict") ||
		strings.Contains(errMsg, "Transaction conflict")
}

// wrapWriteError converts constraint violations into ErrIntegrityViolation.
func wrapWriteError(op string, err error) error {
	if isConstraintError(err) {
		return fmt.Errorf("%w: %s: %v", ErrIntegrityViolation, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup operations in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackOnError rolls back tx when *errp is set, logging a failed rollback.
func rollbackOnError(tx interface{ Rollback() error }, errp *error) {
	if *errp == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil {
		logging.Error().
			Err(rbErr).
			AnErr("original_error", *errp).
			Msg("Transaction rollback failed")
	}
}
