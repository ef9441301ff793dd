// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthLive(t *testing.T) {
	s := setupTestServer(t)

	rec := s.get(t, "/health/live")
	checkStatus(t, rec, http.StatusOK)

	var body healthResponse
	decodeJSON(t, rec, &body)
	if body.Status != "alive" {
		t.Errorf("Expected status alive, got %q", body.Status)
	}
}

func TestHealthReady(t *testing.T) {
	s := setupTestServer(t)

	rec := s.get(t, "/health/ready")
	checkStatus(t, rec, http.StatusOK)

	var body healthResponse
	decodeJSON(t, rec, &body)
	if body.Status != "ready" || body.DatabaseConnected == nil || !*body.DatabaseConnected {
		t.Errorf("Unexpected readiness %+v", body)
	}
}

func TestHealthReady_StorageDown(t *testing.T) {
	s := setupTestServer(t)
	if err := s.db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	rec := s.get(t, "/health/ready")
	checkStatus(t, rec, http.StatusServiceUnavailable)

	var body healthResponse
	decodeJSON(t, rec, &body)
	if body.Status != "not_ready" {
		t.Errorf("Expected status not_ready, got %q", body.Status)
	}
}

func TestHealthReady_NilStore(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	checkStatus(t, rec, http.StatusServiceUnavailable)
}
