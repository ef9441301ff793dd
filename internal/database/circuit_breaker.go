// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

// CircuitBreakerName labels the storage breaker in metrics.
const CircuitBreakerName = "duckdb-storage"

// CircuitBreakerStore wraps DB with a circuit breaker. While the circuit is
// open every call fails fast with ErrStorageUnavailable.
//
// Not-found, integrity and cancellation errors are caller outcomes, not
// storage faults, and never count toward tripping the breaker.
type CircuitBreakerStore struct {
	db   *DB
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewCircuitBreakerStore wraps db. The breaker:
//   - allows 3 requests while half-open
//   - resets counts every minute while closed
//   - waits 2 minutes before probing again
//   - opens at a 60% failure rate over at least 10 requests
func NewCircuitBreakerStore(db *DB) *CircuitBreakerStore {
	return newCircuitBreakerStore(db, gobreaker.Settings{
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
}

func newCircuitBreakerStore(db *DB, st gobreaker.Settings) *CircuitBreakerStore {
	st.Name = CircuitBreakerName

	metrics.CircuitBreakerState.WithLabelValues(st.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(st.Name).Set(0)

	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.Requests < 10 {
			return false
		}
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		if failureRatio >= 0.6 {
			logging.Warn().
				Uint32("failures", counts.TotalFailures).
				Float64("failure_rate", failureRatio*100).
				Msg("[CIRCUIT BREAKER] Opening storage circuit")
			return true
		}
		return false
	}
	st.IsSuccessful = func(err error) bool {
		return err == nil ||
			errors.Is(err, ErrNotFound) ||
			errors.Is(err, ErrIntegrityViolation) ||
			errors.Is(err, ErrInvalidGeometry) ||
			errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logging.Info().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("[CIRCUIT BREAKER] State transition")

		metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		if to == gobreaker.StateClosed {
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
		}
	}

	return &CircuitBreakerStore{
		db:   db,
		cb:   gobreaker.NewCircuitBreaker[any](st),
		name: st.Name,
	}
}

// State returns the current breaker state.
func (s *CircuitBreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *CircuitBreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(s.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	return result, nil
}

// run executes fn through the breaker and casts its result back to T.
func run[T any](s *CircuitBreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	result, err := s.execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Ping checks the database with breaker protection.
func (s *CircuitBreakerStore) Ping(ctx context.Context) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.db.Ping(ctx)
	})
	return err
}

func (s *CircuitBreakerStore) ListLinks(ctx context.Context, from *uuid.UUID, count int) (keyset.Page[models.Link], error) {
	return run(s, func() (keyset.Page[models.Link], error) {
		return s.db.ListLinks(ctx, from, count)
	})
}

func (s *CircuitBreakerStore) GetLinkByUUID(ctx context.Context, id uuid.UUID) (models.Link, error) {
	return run(s, func() (models.Link, error) {
		return s.db.GetLinkByUUID(ctx, id)
	})
}

func (s *CircuitBreakerStore) CreateLinks(ctx context.Context, geometries []models.LineString) ([]models.Link, error) {
	return run(s, func() ([]models.Link, error) {
		return s.db.CreateLinks(ctx, geometries)
	})
}

func (s *CircuitBreakerStore) AliasNamesForLink(ctx context.Context, linkID int64) ([]string, error) {
	return run(s, func() ([]string, error) {
		return s.db.AliasNamesForLink(ctx, linkID)
	})
}

func (s *CircuitBreakerStore) LinkObservations(ctx context.Context, linkID int64, start, end time.Time) (map[models.ObservationType][]models.Observation, error) {
	return run(s, func() (map[models.ObservationType][]models.Observation, error) {
		return s.db.LinkObservations(ctx, linkID, start, end)
	})
}

func (s *CircuitBreakerStore) ObservationDateRange(ctx context.Context) (models.DateRange, error) {
	return run(s, func() (models.DateRange, error) {
		return s.db.ObservationDateRange(ctx)
	})
}

func (s *CircuitBreakerStore) ListLinkAliases(ctx context.Context, from *string, count int) (keyset.Page[models.LinkAlias], error) {
	return run(s, func() (keyset.Page[models.LinkAlias], error) {
		return s.db.ListLinkAliases(ctx, from, count)
	})
}

func (s *CircuitBreakerStore) CreateLinkAliases(ctx context.Context, aliases []models.NewLinkAlias) ([]models.LinkAlias, error) {
	return run(s, func() ([]models.LinkAlias, error) {
		return s.db.CreateLinkAliases(ctx, aliases)
	})
}

func (s *CircuitBreakerStore) ResolveLinkAliases(ctx context.Context, names []string) ([]models.AliasResolution, error) {
	return run(s, func() ([]models.AliasResolution, error) {
		return s.db.ResolveLinkAliases(ctx, names)
	})
}
