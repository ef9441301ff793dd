// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/models"
)

// FakeObservationInterval is the spacing of generated observations.
const FakeObservationInterval = 15 * time.Minute

// British National Grid extent used for generated geometry.
const (
	gridMaxEasting  = 700000.0
	gridMaxNorthing = 1300000.0
)

// SeedOptions controls SeedTestData.
type SeedOptions struct {
	Links    int
	Aliases  int
	Start    time.Time
	Duration time.Duration
	Seed     uint64
}

// DefaultSeedOptions returns the data set used for local development: 200
// links with observations from 2012-04-23 to 2012-05-10.
func DefaultSeedOptions() SeedOptions {
	start := time.Date(2012, 4, 23, 0, 0, 0, 0, time.UTC)
	return SeedOptions{
		Links:    200,
		Aliases:  200,
		Start:    start,
		Duration: time.Date(2012, 5, 10, 0, 0, 0, 0, time.UTC).Sub(start),
		Seed:     1,
	}
}

// SeedTestData replaces all stored data with a generated data set.
func (db *DB) SeedTestData(ctx context.Context, opts SeedOptions) error {
	if opts.Links < 0 || opts.Aliases < 0 || opts.Duration < 0 {
		return fmt.Errorf("seed options must not be negative")
	}
	if opts.Aliases > 0 && opts.Links == 0 {
		return fmt.Errorf("cannot create aliases without links")
	}

	if err := db.DropAllData(ctx); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	links, err := db.CreateFakeLinks(ctx, rng, opts.Links)
	if err != nil {
		return err
	}

	total := 0
	for _, link := range links {
		n, err := db.CreateFakeObservations(ctx, rng, link.ID, opts.Start, opts.Duration)
		if err != nil {
			return err
		}
		total += n
	}

	aliases, err := db.CreateFakeLinkAliases(ctx, rng, links, opts.Aliases)
	if err != nil {
		return err
	}

	logging.Info().
		Int("links", len(links)).
		Int("observations", total).
		Int("aliases", len(aliases)).
		Time("start", opts.Start).
		Dur("duration", opts.Duration).
		Msg("Seeded test data")
	return nil
}

// CreateFakeLinks creates n links with random two to five point geometries.
func (db *DB) CreateFakeLinks(ctx context.Context, rng *rand.Rand, n int) ([]models.Link, error) {
	geometries := make([]models.LineString, n)
	for i := range geometries {
		points := make([]models.Point, 2+rng.IntN(4))
		x, y := rng.Float64()*gridMaxEasting, rng.Float64()*gridMaxNorthing
		for j := range points {
			points[j] = models.Point{x, y}
			x += rng.Float64()*200 - 100
			y += rng.Float64()*200 - 100
		}
		geometries[i] = models.LineString{SRID: models.DefaultSRID, Coordinates: points}
	}
	return db.CreateLinks(ctx, geometries)
}

// CreateFakeObservations creates one observation of every type on a link at
// each FakeObservationInterval step in [start, start+duration).
func (db *DB) CreateFakeObservations(ctx context.Context, rng *rand.Rand, linkID int64, start time.Time, duration time.Duration) (int, error) {
	steps := int(duration / FakeObservationInterval)
	if duration%FakeObservationInterval != 0 {
		steps++
	}

	observations := make([]models.Observation, 0, steps*len(models.ObservationTypes))
	for step := 0; step < steps; step++ {
		at := start.Add(time.Duration(step) * FakeObservationInterval).UTC()
		for _, typ := range models.ObservationTypes {
			observations = append(observations, models.Observation{
				Value:      fakeValue(rng, typ),
				Type:       typ,
				ObservedAt: at,
				LinkID:     linkID,
			})
		}
	}
	return db.InsertObservations(ctx, observations)
}

// CreateFakeLinkAliases creates n aliases named alias-00000, alias-00001 and
// so on, each pointing at a random link.
func (db *DB) CreateFakeLinkAliases(ctx context.Context, rng *rand.Rand, links []models.Link, n int) ([]models.LinkAlias, error) {
	if n == 0 {
		return []models.LinkAlias{}, nil
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("cannot create aliases without links")
	}

	aliases := make([]models.NewLinkAlias, n)
	for i := range aliases {
		aliases[i] = models.NewLinkAlias{
			Name:     fmt.Sprintf("alias-%05d", i),
			LinkUUID: links[rng.IntN(len(links))].UUID,
		}
	}
	return db.CreateLinkAliases(ctx, aliases)
}

// DropAllData deletes every observation, alias and link. Each table is
// cleared in its own statement, children first, so foreign keys are satisfied
// at every step.
func (db *DB) DropAllData(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	for _, table := range []string{"observations", "link_aliases", "links"} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	logging.Debug().Msg("Dropped all data")
	return nil
}

func fakeValue(rng *rand.Rand, typ models.ObservationType) float64 {
	switch typ {
	case models.ObservationSpeed:
		return rng.Float64() * 120
	case models.ObservationFlow:
		return float64(rng.IntN(2400))
	case models.ObservationOccupancy:
		return rng.Float64() * 100
	default:
		return 0
	}
}
