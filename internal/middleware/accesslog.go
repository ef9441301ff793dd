// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trafficdb/internal/logging"
)

// AccessLog writes one log line per request once it completes. Server errors
// log at warn, everything else at info. Must run inside RequestID for the
// line to carry request_id.
func AccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next(rec, r)

		logger := logging.Ctx(r.Context())
		var event *zerolog.Event
		if rec.status >= http.StatusInternalServerError {
			event = logger.Warn()
		} else {
			event = logger.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", logging.SanitizeValue(r.URL.Path)).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}
