// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

// observationWindow is a half-open interval [Start, Start+Duration).
type observationWindow struct {
	Start    time.Time
	Duration time.Duration
}

func (w observationWindow) End() time.Time {
	return w.Start.Add(w.Duration)
}

// Windows must lie within years 1 through 9999.
var (
	minWindowMillis = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxWindowMillis = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
)

// resolveWindow applies the window defaults and limits to a parsed query.
//
// A missing duration means the maximum, and longer ones are clamped to it. A
// missing start places the window so the latest stored observation is the
// last instant it covers, or so it ends at the current time when nothing is
// stored.
func (h *Handler) resolveWindow(ctx context.Context, q observationWindowQuery) (observationWindow, error) {
	w := observationWindow{Duration: h.maxDuration}

	if q.Duration != nil {
		ms := *q.Duration
		if ms < 0 {
			return w, badRequestf("duration must not be negative")
		}
		if ms < h.maxDuration.Milliseconds() {
			w.Duration = time.Duration(ms) * time.Millisecond
		}
	}

	if q.Start != nil {
		start := *q.Start
		if start < minWindowMillis || start > maxWindowMillis-w.Duration.Milliseconds() {
			return w, badRequestf("start is out of range")
		}
		w.Start = time.UnixMilli(start).UTC()
		return w, nil
	}

	dr, err := h.store.ObservationDateRange(ctx)
	if err != nil {
		return w, err
	}
	end := h.now().UTC()
	if dr.Max != nil {
		// One millisecond past the latest observation keeps it inside the
		// half-open window.
		end = dr.Max.Add(time.Millisecond)
	}
	w.Start = end.Add(-w.Duration).Truncate(time.Millisecond)
	return w, nil
}

// windowURL returns the current URL with start and duration replaced.
func (h *Handler) windowURL(r *http.Request, w observationWindow) string {
	u := h.currentURL(r)
	q := u.Query()
	q.Set("start", strconv.FormatInt(w.Start.UnixMilli(), 10))
	q.Set("duration", strconv.FormatInt(w.Duration.Milliseconds(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// LinkObservations handles GET /api/links/{linkID}/observations.
//
// Query parameters "start" (JavaScript timestamp) and "duration"
// (milliseconds) select the window. Every channel appears in "data", each a
// list of [timestamp, value] pairs ordered by time.
func (h *Handler) LinkObservations(w http.ResponseWriter, r *http.Request) {
	id, err := linkIDParam(r)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	link, err := h.lookupLink(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	wq, err := parseWindowQuery(r)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	window, err := h.resolveWindow(r.Context(), wq)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	byType, err := h.store.LinkObservations(r.Context(), link.ID, window.Start, window.End())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	data := make(map[string]models.ChannelValues, len(models.ObservationTypes))
	for _, typ := range models.ObservationTypes {
		obs := byType[typ]
		values := make([][2]float64, 0, len(obs))
		for _, o := range obs {
			values = append(values, [2]float64{float64(o.ObservedAt.UnixMilli()), o.Value})
		}
		data[typ.Channel()] = models.ChannelValues{Values: values}
		metrics.RecordObservations(typ.Channel(), len(values))
	}

	respondJSON(w, http.StatusOK, models.LinkObservationsResponse{
		Link: models.LinkRef{
			ID:  idcodec.Encode(link.UUID),
			URL: h.linkURL(r, link.UUID),
		},
		Data: data,
		Query: models.ObservationQuery{
			Start:    window.Start.UnixMilli(),
			Duration: window.Duration.Milliseconds(),
			Earlier:  h.windowURL(r, observationWindow{Start: window.Start.Add(-window.Duration), Duration: window.Duration}),
			Later:    h.windowURL(r, observationWindow{Start: window.End(), Duration: window.Duration}),
		},
	})
}
