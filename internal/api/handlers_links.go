// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/keyset"
	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

type createLinksResponse struct {
	Create []models.LinkRef `json:"create"`
}

// linkFeature renders a link as a GeoJSON feature. Extra properties are
// merged over the url and observationsUrl entries.
func (h *Handler) linkFeature(r *http.Request, link models.Link, extra map[string]any) models.Feature {
	props := map[string]any{
		"url":             h.linkURL(r, link.UUID),
		"observationsUrl": h.observationsURL(r, link.UUID),
	}
	for k, v := range extra {
		props[k] = v
	}
	return models.Feature{
		Type:       "Feature",
		ID:         idcodec.Encode(link.UUID),
		Geometry:   models.NewLineStringGeometry(link.Geometry),
		Properties: props,
	}
}

// linkIDParam decodes the {linkID} path segment.
func linkIDParam(r *http.Request) (uuid.UUID, error) {
	return idcodec.Decode(chi.URLParam(r, "linkID"))
}

// lookupLink fetches a link by public id, going through the link cache when
// it is enabled. Only found links are cached.
func (h *Handler) lookupLink(ctx context.Context, id uuid.UUID) (models.Link, error) {
	if h.links == nil {
		return h.store.GetLinkByUUID(ctx, id)
	}
	if link, ok := h.links.Get(id); ok {
		metrics.RecordCacheLookup("links", true)
		return link, nil
	}
	metrics.RecordCacheLookup("links", false)

	link, err := h.store.GetLinkByUUID(ctx, id)
	if err != nil {
		return models.Link{}, err
	}
	h.links.Add(id, link)
	return link, nil
}

// ListLinks handles GET /api/links/.
//
// Links are ordered by identifier. A "from" that is not a valid identifier
// token answers 404.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	count, rawFrom, err := h.pageQuery(r)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	var from *uuid.UUID
	if rawFrom != nil {
		id, err := idcodec.Decode(*rawFrom)
		if err != nil {
			respondStoreError(w, r, err)
			return
		}
		from = &id
	}

	page, err := h.store.ListLinks(r.Context(), from, count)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	features := make([]models.Feature, 0, len(page.Items))
	for _, link := range page.Items {
		features = append(features, h.linkFeature(r, link, nil))
	}

	metrics.RecordPage("links", len(features))
	respondJSON(w, http.StatusOK, models.FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Properties: map[string]any{
			"page": h.pageInfo(r, len(features), page.Next, page.HasNext),
		},
	})
}

// GetLink handles GET /api/links/{linkID}/. The feature's properties include
// the names of the link's aliases.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
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

	aliases, err := h.store.AliasNamesForLink(r.Context(), link.ID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.linkFeature(r, link, map[string]any{"aliases": aliases}))
}

// PatchLinks handles PATCH /api/links/, creating one link per entry of
// "create". The response lists the new links in request order.
func (h *Handler) PatchLinks(w http.ResponseWriter, r *http.Request) {
	var req createLinksRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}

	geometries := make([]models.LineString, len(req.Create))
	for i, item := range req.Create {
		geometries[i] = models.LineString{SRID: models.DefaultSRID, Coordinates: item.Coordinates}
	}

	created, err := h.store.CreateLinks(r.Context(), geometries)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	resp := createLinksResponse{Create: make([]models.LinkRef, 0, len(created))}
	for _, link := range created {
		resp.Create = append(resp.Create, models.LinkRef{
			ID:  idcodec.Encode(link.UUID),
			URL: h.linkURL(r, link.UUID),
		})
	}

	if len(created) > 0 {
		logging.Ctx(r.Context()).Info().Int("count", len(created)).Msg("Created links")
	}
	respondJSON(w, http.StatusOK, resp)
}

// pageInfo builds the page descriptor for a collection response.
func (h *Handler) pageInfo(r *http.Request, count int, next string, hasNext bool) models.PageInfo {
	info := models.PageInfo{Count: count}
	if hasNext {
		info.Next = keyset.NextURL(h.currentURL(r), next)
	}
	return info
}
