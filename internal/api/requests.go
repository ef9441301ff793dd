// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/models"
	"github.com/tomtom215/trafficdb/internal/validation"
)

// maxBodyBytes bounds request bodies on write endpoints.
const maxBodyBytes = 1 << 20

// createLinksRequest is the body of PATCH /api/links/.
type createLinksRequest struct {
	Create []createLinkItem `json:"create" validate:"dive"`
}

type createLinkItem struct {
	Coordinates []models.Point `json:"coordinates" validate:"min=2"`
}

// createAliasesRequest is the body of PATCH /api/aliases/.
type createAliasesRequest struct {
	Create []createAliasItem `json:"create" validate:"dive"`
}

type createAliasItem struct {
	Name string `json:"name" validate:"required,max=255"`
	Link string `json:"link" validate:"required,linktoken"`
}

// resolveRequest is the body of POST /api/aliases/resolve. A JSON null or a
// missing field fails "required"; an empty array is allowed. Elements are
// pointers so a null element can be told apart from "".
type resolveRequest struct {
	Aliases []*string `json:"aliases" validate:"required"`
}

// names returns the requested names, rejecting null elements.
func (req resolveRequest) names() ([]string, error) {
	names := make([]string, len(req.Aliases))
	for i, name := range req.Aliases {
		if name == nil {
			return nil, badRequestf("aliases[%d] must be a string", i)
		}
		names[i] = *name
	}
	return names, nil
}

// observationWindowQuery holds the parsed query of an observations request.
// Values are JavaScript timestamps and durations in milliseconds.
type observationWindowQuery struct {
	Start    *int64 `json:"start"`
	Duration *int64 `json:"duration" validate:"omitnil,gte=0"`
}

// decodeJSONBody decodes a single JSON value from an application/json body
// into dst, then validates dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return badRequestf("content type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequestf("request body is empty")
		case errors.As(err, &maxErr):
			return badRequestf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return badRequestf("malformed JSON body")
		}
	}
	if dec.More() {
		return badRequestf("request body must contain a single JSON value")
	}

	return validateRequest(dst)
}

// validateRequest runs struct validation, returning an errBadRequest that
// carries the translated message.
func validateRequest(v any) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return badRequestf("%s", verr.ToAPIError().Message)
	}
	return nil
}

// pageQuery reads "count" and "from" from the query string. from is nil when
// absent.
func (h *Handler) pageQuery(r *http.Request) (count int, from *string, err error) {
	q := r.URL.Query()

	rawCount, present := q["count"]
	first := ""
	if present && len(rawCount) > 0 {
		first = rawCount[0]
	}
	if count, err = keyset.ParseCount(first, present, h.pageLimit); err != nil {
		return 0, nil, err
	}

	if values, ok := q["from"]; ok && len(values) > 0 {
		from = &values[0]
	}
	return count, from, nil
}

// parseWindowQuery reads "start" and "duration". Either may be absent.
func parseWindowQuery(r *http.Request) (observationWindowQuery, error) {
	var wq observationWindowQuery
	q := r.URL.Query()

	parse := func(name string) (*int64, error) {
		values, ok := q[name]
		if !ok || len(values) == 0 {
			return nil, nil
		}
		n, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			return nil, badRequestf("%s must be an integer number of milliseconds", name)
		}
		return &n, nil
	}

	var err error
	if wq.Start, err = parse("start"); err != nil {
		return wq, err
	}
	if wq.Duration, err = parse("duration"); err != nil {
		return wq, err
	}
	return wq, validateRequest(&wq)
}
