// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func serveWithRequestID(t *testing.T, header string) (responseID, contextID string) {
	t.Helper()

	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		contextID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)

	return rec.Header().Get(RequestIDHeader), contextID
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	responseID, contextID := serveWithRequestID(t, "")

	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("response X-Request-ID is not a UUID: %q", responseID)
	}
	if contextID != responseID {
		t.Errorf("context ID %q does not match header %q", contextID, responseID)
	}
}

func TestRequestID_ReusesUpstreamID(t *testing.T) {
	responseID, contextID := serveWithRequestID(t, "edge-1234.abc_DEF")

	if responseID != "edge-1234.abc_DEF" {
		t.Errorf("expected upstream ID to be echoed, got %q", responseID)
	}
	if contextID != responseID {
		t.Errorf("context ID %q does not match header %q", contextID, responseID)
	}
}

func TestRequestID_RejectsUnsafeUpstreamID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"newline", "abc\ndef"},
		{"space", "abc def"},
		{"too long", strings.Repeat("a", maxRequestIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responseID, _ := serveWithRequestID(t, tt.header)
			if responseID == tt.header {
				t.Errorf("unsafe ID %q should have been replaced", tt.header)
			}
			if _, err := uuid.Parse(responseID); err != nil {
				t.Errorf("replacement is not a UUID: %q", responseID)
			}
		})
	}
}
