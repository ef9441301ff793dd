// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/database"
	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/models"
)

// Store is the storage surface the handlers need. Both *database.DB and
// *database.CircuitBreakerStore satisfy it.
type Store interface {
	Ping(ctx context.Context) error

	ListLinks(ctx context.Context, from *uuid.UUID, count int) (keyset.Page[models.Link], error)
	GetLinkByUUID(ctx context.Context, id uuid.UUID) (models.Link, error)
	CreateLinks(ctx context.Context, geometries []models.LineString) ([]models.Link, error)
	AliasNamesForLink(ctx context.Context, linkID int64) ([]string, error)

	LinkObservations(ctx context.Context, linkID int64, start, end time.Time) (map[models.ObservationType][]models.Observation, error)
	ObservationDateRange(ctx context.Context) (models.DateRange, error)

	ListLinkAliases(ctx context.Context, from *string, count int) (keyset.Page[models.LinkAlias], error)
	CreateLinkAliases(ctx context.Context, aliases []models.NewLinkAlias) ([]models.LinkAlias, error)
	ResolveLinkAliases(ctx context.Context, names []string) ([]models.AliasResolution, error)
}

var (
	_ Store = (*database.DB)(nil)
	_ Store = (*database.CircuitBreakerStore)(nil)
)
