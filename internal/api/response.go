// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trafficdb/internal/logging"
)

// APIError is the body of every failed request, nested under "error".
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details map[string]any `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the error envelope, tagged with the request's ID.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	respondJSON(w, status, &errorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}})
}
