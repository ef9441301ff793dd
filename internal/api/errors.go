// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/trafficdb/internal/database"
	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/logging"
)

// errBadRequest marks failures caused by the request itself. Its message is
// safe to return to the client.
var errBadRequest = errors.New("bad request")

// Error codes used in the error envelope.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
	codeUnavailable = "SERVICE_UNAVAILABLE"
	codeInternal    = "INTERNAL_ERROR"
)

// badRequestf returns an errBadRequest carrying a client-facing message.
func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// respondStoreError maps an error from request parsing or storage to a
// response.
//
// An invalid identifier token maps to 404 here. Callers that treat a token
// in a request body as a client error must check for it first.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, idcodec.ErrInvalidToken):
		respondError(w, r, http.StatusNotFound, codeNotFound, "Not found", nil)

	case errors.Is(err, errBadRequest), errors.Is(err, keyset.ErrInvalidCount):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, clientMessage(err), nil)

	case errors.Is(err, database.ErrInvalidGeometry):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, err.Error(), nil)

	case errors.Is(err, database.ErrIntegrityViolation):
		respondError(w, r, http.StatusConflict, codeConflict, err.Error(), nil)

	case errors.Is(err, database.ErrStorageUnavailable):
		w.Header().Set("Retry-After", "30")
		respondError(w, r, http.StatusServiceUnavailable, codeUnavailable, "Storage temporarily unavailable", nil)

	case errors.Is(err, context.Canceled):
		logging.Ctx(r.Context()).Debug().Msg("Client went away before the response was written")

	default:
		logging.Ctx(r.Context()).Error().
			Str("error", logging.SanitizeValue(err.Error())).
			Str("path", logging.SanitizeValue(r.URL.Path)).
			Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, codeInternal, "Internal server error", nil)
	}
}

// clientMessage strips the sentinel prefix from a bad request error.
func clientMessage(err error) string {
	return strings.TrimPrefix(err.Error(), errBadRequest.Error()+": ")
}
