// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/trafficdb/internal/logging"
)

const (
	defaultCheckpointInterval = 5 * time.Minute
	checkpointTimeout         = time.Minute

	// maxCheckpointFailures is how many checkpoints in a row may fail before
	// the service gives up and lets the supervisor restart it.
	maxCheckpointFailures = 3
)

// Checkpointer flushes the storage write-ahead log into the database file.
// Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints storage on a fixed interval so the
// write-ahead log stays small between restarts.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService returns a service checkpointing store every interval.
// A non-positive interval means five minutes.
func NewCheckpointService(store Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = defaultCheckpointInterval
	}
	return &CheckpointService{
		store:    store,
		interval: interval,
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service.
func (c *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := c.checkpoint(ctx); err != nil {
			failures++
			logging.Warn().Err(err).Int("consecutive_failures", failures).Msg("Checkpoint failed")
			if failures >= maxCheckpointFailures {
				return fmt.Errorf("%d consecutive checkpoints failed: %w", failures, err)
			}
			continue
		}
		failures = 0
	}
}

func (c *CheckpointService) checkpoint(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	start := time.Now()
	if err := c.store.Checkpoint(ctx); err != nil {
		return err
	}
	logging.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")
	return nil
}

// String names the service in supervisor logs.
func (c *CheckpointService) String() string {
	return c.name
}
