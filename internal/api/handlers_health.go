// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds the storage ping behind /health/ready.
const readinessTimeout = 2 * time.Second

type healthResponse struct {
	Status            string  `json:"status"`
	DatabaseConnected *bool   `json:"database_connected,omitempty"`
	Uptime            float64 `json:"uptime"`
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if storage answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	connected := h.store != nil && h.store.Ping(ctx) == nil

	status, code := "ready", http.StatusOK
	if !connected {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	respondJSON(w, code, healthResponse{
		Status:            status,
		DatabaseConnected: &connected,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}
