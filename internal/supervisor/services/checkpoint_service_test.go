// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeCheckpointer fails the first failN calls with err.
type fakeCheckpointer struct {
	calls atomic.Int32
	failN int32
	err   error
}

func (f *fakeCheckpointer) Checkpoint(ctx context.Context) error {
	n := f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("checkpoint called without a deadline")
	}
	if n <= f.failN {
		return f.err
	}
	return nil
}

var _ suture.Service = (*CheckpointService)(nil)

func TestNewCheckpointService(t *testing.T) {
	svc := NewCheckpointService(&fakeCheckpointer{}, 0)
	if svc.interval != defaultCheckpointInterval {
		t.Errorf("interval = %v, want %v", svc.interval, defaultCheckpointInterval)
	}
	if svc.String() != "duckdb-checkpoint" {
		t.Errorf("String() = %q", svc.String())
	}

	svc = NewCheckpointService(&fakeCheckpointer{}, time.Second)
	if svc.interval != time.Second {
		t.Errorf("interval = %v, want 1s", svc.interval)
	}
}

func TestCheckpointServiceServe(t *testing.T) {
	t.Run("checkpoints on every tick until canceled", func(t *testing.T) {
		store := &fakeCheckpointer{}
		svc := NewCheckpointService(store, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(time.Second)
		for store.calls.Load() < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if store.calls.Load() < 3 {
			t.Errorf("expected at least 3 checkpoints, got %d", store.calls.Load())
		}
	})

	t.Run("isolated failures are tolerated", func(t *testing.T) {
		store := &fakeCheckpointer{failN: maxCheckpointFailures - 1, err: errors.New("disk busy")}
		svc := NewCheckpointService(store, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(time.Second)
		for store.calls.Load() <= maxCheckpointFailures && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("expected the service to keep running, got %v", err)
		}
	})

	t.Run("repeated failures stop the service", func(t *testing.T) {
		store := &fakeCheckpointer{failN: 100, err: errors.New("disk full")}
		svc := NewCheckpointService(store, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, store.err) {
			t.Fatalf("expected wrapped checkpoint error, got %v", err)
		}
		if got := store.calls.Load(); got != maxCheckpointFailures {
			t.Errorf("expected %d attempts, got %d", maxCheckpointFailures, got)
		}
	})
}
