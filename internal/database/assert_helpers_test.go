// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package database

import (
	"errors"
	"testing"

	"github.com/tomtom215/trafficdb/internal/models"
)

// Assertion helpers share the "check" prefix and call t.Helper() so failures
// point at the calling line.

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got %v", target, err)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkBool(t *testing.T, fieldName string, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %v, got %v", fieldName, want, got)
	}
}

// testGeometries returns n distinct two-point lines.
func testGeometries(n int) []models.LineString {
	geoms := make([]models.LineString, n)
	for i := range geoms {
		x := float64(i * 10)
		geoms[i] = models.LineString{Coordinates: []models.Point{{x, 0}, {x + 1, 1}}}
	}
	return geoms
}
