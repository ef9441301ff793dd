// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trafficdb/internal/metrics"
)

func testBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Hour,
	}
}

func TestCircuitBreakerStore_PassesThrough(t *testing.T) {
	db := setupTestDB(t)
	store := NewCircuitBreakerStore(db)
	ctx := context.Background()

	created, err := store.CreateLinks(ctx, testGeometries(2))
	checkNoError(t, err)
	checkIntEqual(t, "created", len(created), 2)

	page, err := store.ListLinks(ctx, nil, 10)
	checkNoError(t, err)
	checkIntEqual(t, "listed", len(page.Items), 2)

	link, err := store.GetLinkByUUID(ctx, created[0].UUID)
	checkNoError(t, err)
	if link.ID != created[0].ID {
		t.Errorf("expected id %d, got %d", created[0].ID, link.ID)
	}

	res, err := store.ResolveLinkAliases(ctx, []string{"none"})
	checkNoError(t, err)
	checkIntEqual(t, "resolutions", len(res), 1)

	checkNoError(t, store.Ping(ctx))
	if store.State() != gobreaker.StateClosed {
		t.Errorf("expected closed breaker, got %s", store.State())
	}
}

func TestCircuitBreakerStore_CallerErrorsDoNotTrip(t *testing.T) {
	db := setupTestDB(t)
	store := newCircuitBreakerStore(db, testBreakerSettings())
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := store.GetLinkByUUID(ctx, uuid.New())
		checkErrorIs(t, err, ErrNotFound)

		short := testGeometries(1)
		short[0].Coordinates = short[0].Coordinates[:1]
		_, err = store.CreateLinks(ctx, short)
		checkErrorIs(t, err, ErrInvalidGeometry)
	}
	if store.State() != gobreaker.StateClosed {
		t.Errorf("caller errors tripped the breaker: %s", store.State())
	}
}

func TestCircuitBreakerStore_TripsOnStorageFailures(t *testing.T) {
	db := setupTestDB(t)
	store := newCircuitBreakerStore(db, testBreakerSettings())
	ctx := context.Background()

	// Every call fails once the pool is closed.
	checkNoError(t, db.conn.Close())

	for i := 0; i < 10; i++ {
		_, err := store.ListLinks(ctx, nil, 5)
		if err == nil {
			t.Fatal("expected an error from a closed database")
		}
		if errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("breaker opened early at call %d", i)
		}
	}

	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", store.State())
	}

	_, err := store.ListLinks(ctx, nil, 5)
	checkErrorIs(t, err, ErrStorageUnavailable)

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(CircuitBreakerName)); got != 2 {
		t.Errorf("breaker state metric: expected 2, got %v", got)
	}
}

func TestStateToFloat(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  float64
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
		{gobreaker.State(99), -1},
	}
	for _, tt := range tests {
		if got := stateToFloat(tt.state); got != tt.want {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
