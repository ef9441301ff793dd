// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/trafficdb/internal/models"
)

var obsBase = time.Date(2013, 4, 29, 0, 0, 0, 0, time.UTC)

// seedObservations creates two links, each with speed observations every 15
// minutes for three hours and a single flow observation at obsBase.
func seedObservations(t *testing.T, db *DB) []models.Link {
	t.Helper()
	ctx := context.Background()

	links, err := db.CreateLinks(ctx, testGeometries(2))
	checkNoError(t, err)

	var obs []models.Observation
	for _, link := range links {
		for m := 0; m < 180; m += 15 {
			obs = append(obs, models.Observation{
				Value:      float64(m),
				Type:       models.ObservationSpeed,
				ObservedAt: obsBase.Add(time.Duration(m) * time.Minute),
				LinkID:     link.ID,
			})
		}
		obs = append(obs, models.Observation{
			Value:      42,
			Type:       models.ObservationFlow,
			ObservedAt: obsBase,
			LinkID:     link.ID,
		})
	}

	n, err := db.InsertObservations(ctx, obs)
	checkNoError(t, err)
	checkIntEqual(t, "inserted", n, len(obs))
	return links
}

func TestObservationsForLink_HalfOpenWindow(t *testing.T) {
	db := setupTestDB(t)
	links := seedObservations(t, db)

	start := obsBase.Add(30 * time.Minute)
	end := obsBase.Add(90 * time.Minute)
	obs, err := db.ObservationsForLink(context.Background(), links[0].ID, models.ObservationSpeed, start, end)
	checkNoError(t, err)

	// 30, 45, 60 and 75 minutes; 90 is excluded.
	checkIntEqual(t, "observations", len(obs), 4)
	for i, o := range obs {
		want := start.Add(time.Duration(i) * 15 * time.Minute)
		if !o.ObservedAt.Equal(want) {
			t.Errorf("observation %d: expected %v, got %v", i, want, o.ObservedAt)
		}
		if o.ObservedAt.Location() != time.UTC {
			t.Errorf("observation %d: expected UTC, got %v", i, o.ObservedAt.Location())
		}
		if o.LinkID != links[0].ID || o.Type != models.ObservationSpeed {
			t.Errorf("observation %d: unexpected link %d or type %v", i, o.LinkID, o.Type)
		}
	}
}

func TestObservationsForLink_TypeFilter(t *testing.T) {
	db := setupTestDB(t)
	links := seedObservations(t, db)
	ctx := context.Background()

	flow, err := db.ObservationsForLink(ctx, links[0].ID, models.ObservationFlow, obsBase, obsBase.Add(time.Hour))
	checkNoError(t, err)
	checkIntEqual(t, "flow", len(flow), 1)

	occ, err := db.ObservationsForLink(ctx, links[0].ID, models.ObservationOccupancy, obsBase, obsBase.Add(time.Hour))
	checkNoError(t, err)
	checkIntEqual(t, "occupancy", len(occ), 0)
	if occ == nil {
		t.Error("empty result should be a non-nil slice")
	}
}

func TestObservationsForLinks_OrderedByTimeThenLink(t *testing.T) {
	db := setupTestDB(t)
	links := seedObservations(t, db)

	obs, err := db.ObservationsForLinks(context.Background(),
		[]int64{links[1].ID, links[0].ID}, models.ObservationSpeed, obsBase, obsBase.Add(30*time.Minute))
	checkNoError(t, err)
	checkIntEqual(t, "observations", len(obs), 4)

	for i := 1; i < len(obs); i++ {
		prev, cur := obs[i-1], obs[i]
		if cur.ObservedAt.Before(prev.ObservedAt) ||
			(cur.ObservedAt.Equal(prev.ObservedAt) && cur.LinkID < prev.LinkID) {
			t.Errorf("observations out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestObservationsForLinks_EmptyInputs(t *testing.T) {
	db := setupTestDB(t)
	links := seedObservations(t, db)
	ctx := context.Background()

	obs, err := db.ObservationsForLinks(ctx, nil, models.ObservationSpeed, obsBase, obsBase.Add(time.Hour))
	checkNoError(t, err)
	checkIntEqual(t, "no links", len(obs), 0)

	obs, err = db.ObservationsForLink(ctx, links[0].ID, models.ObservationSpeed, obsBase, obsBase)
	checkNoError(t, err)
	checkIntEqual(t, "empty window", len(obs), 0)
}

func TestLinkObservations_AllChannels(t *testing.T) {
	db := setupTestDB(t)
	links := seedObservations(t, db)

	byType, err := db.LinkObservations(context.Background(), links[0].ID, obsBase, obsBase.Add(3*time.Hour))
	checkNoError(t, err)
	checkIntEqual(t, "channels", len(byType), len(models.ObservationTypes))
	checkIntEqual(t, "speed", len(byType[models.ObservationSpeed]), 12)
	checkIntEqual(t, "flow", len(byType[models.ObservationFlow]), 1)
	checkIntEqual(t, "occupancy", len(byType[models.ObservationOccupancy]), 0)
}

func TestObservationDateRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	dr, err := db.ObservationDateRange(ctx)
	checkNoError(t, err)
	checkBool(t, "empty before seeding", dr.Empty(), true)

	seedObservations(t, db)

	dr, err = db.ObservationDateRange(ctx)
	checkNoError(t, err)
	checkBool(t, "empty after seeding", dr.Empty(), false)
	if !dr.Min.Equal(obsBase) {
		t.Errorf("min: expected %v, got %v", obsBase, *dr.Min)
	}
	if want := obsBase.Add(165 * time.Minute); !dr.Max.Equal(want) {
		t.Errorf("max: expected %v, got %v", want, *dr.Max)
	}
}

func TestInsertObservations_DanglingLink(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.InsertObservations(ctx, []models.Observation{{
		Value:      1,
		Type:       models.ObservationSpeed,
		ObservedAt: obsBase,
		LinkID:     9999,
	}})
	checkErrorIs(t, err, ErrIntegrityViolation)
}

func TestInsertObservations_SpansChunks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	links, err := db.CreateLinks(ctx, testGeometries(1))
	checkNoError(t, err)

	obs := make([]models.Observation, observationInsertChunk*2+7)
	for i := range obs {
		obs[i] = models.Observation{
			Value:      float64(i),
			Type:       models.ObservationOccupancy,
			ObservedAt: obsBase.Add(time.Duration(i) * time.Second),
			LinkID:     links[0].ID,
		}
	}
	n, err := db.InsertObservations(ctx, obs)
	checkNoError(t, err)
	checkIntEqual(t, "inserted", n, len(obs))

	got, err := db.ObservationsForLink(ctx, links[0].ID, models.ObservationOccupancy, obsBase, obsBase.Add(time.Hour))
	checkNoError(t, err)
	checkIntEqual(t, "stored", len(got), len(obs))
}
