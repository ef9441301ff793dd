// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/metrics"
	"github.com/tomtom215/trafficdb/internal/models"
)

type aliasListResponse struct {
	Aliases []models.AliasResponse `json:"aliases"`
	Page    models.PageInfo        `json:"page"`
}

type createAliasesResponse struct {
	Create []models.AliasResponse `json:"create"`
}

// resolution marshals as a two-element array: [name, {id, url}] or
// [name, null].
type resolution struct {
	Name string
	Link *models.LinkRef
}

func (r resolution) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Name, r.Link})
}

type resolveResponse struct {
	Resolutions []resolution `json:"resolutions"`
}

func (h *Handler) aliasResponse(r *http.Request, a models.LinkAlias) models.AliasResponse {
	return models.AliasResponse{
		ID:      a.Name,
		LinkID:  idcodec.Encode(a.LinkUUID),
		LinkURL: h.linkURL(r, a.LinkUUID),
	}
}

// ListAliases handles GET /api/aliases/. Aliases are ordered by name and any
// string is accepted as the "from" bound.
func (h *Handler) ListAliases(w http.ResponseWriter, r *http.Request) {
	count, from, err := h.pageQuery(r)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	page, err := h.store.ListLinkAliases(r.Context(), from, count)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	resp := aliasListResponse{Aliases: make([]models.AliasResponse, 0, len(page.Items))}
	for _, a := range page.Items {
		resp.Aliases = append(resp.Aliases, h.aliasResponse(r, a))
	}
	resp.Page = h.pageInfo(r, len(resp.Aliases), page.Next, page.HasNext)

	metrics.RecordPage("aliases", len(resp.Aliases))
	respondJSON(w, http.StatusOK, resp)
}

// PatchAliases handles PATCH /api/aliases/.
//
// A malformed link token fails validation with 400. A duplicate name or a
// well-formed token naming no link answers 409 and creates nothing.
func (h *Handler) PatchAliases(w http.ResponseWriter, r *http.Request) {
	var req createAliasesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}

	aliases := make([]models.NewLinkAlias, len(req.Create))
	for i, item := range req.Create {
		id, err := idcodec.Decode(item.Link)
		if err != nil {
			respondStoreError(w, r, badRequestf("create[%d].link is not a valid link id", i))
			return
		}
		aliases[i] = models.NewLinkAlias{Name: item.Name, LinkUUID: id}
	}

	created, err := h.store.CreateLinkAliases(r.Context(), aliases)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	resp := createAliasesResponse{Create: make([]models.AliasResponse, 0, len(created))}
	for _, a := range created {
		resp.Create = append(resp.Create, h.aliasResponse(r, a))
	}

	if len(created) > 0 {
		logging.Ctx(r.Context()).Info().Int("count", len(created)).Msg("Created link aliases")
	}
	respondJSON(w, http.StatusOK, resp)
}

// ResolveAliases handles POST /api/aliases/resolve.
//
// The body is {"aliases": [names...]} with at most the page limit of names.
// Each name resolves independently, so duplicates and unknown names are
// allowed; the response keeps request order.
func (h *Handler) ResolveAliases(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if len(req.Aliases) > h.pageLimit {
		respondStoreError(w, r, badRequestf("at most %d aliases may be resolved per request", h.pageLimit))
		return
	}

	names, err := req.names()
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	resolved, err := h.store.ResolveLinkAliases(r.Context(), names)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	resp := resolveResponse{Resolutions: make([]resolution, 0, len(resolved))}
	for _, res := range resolved {
		out := resolution{Name: res.Name}
		if res.LinkUUID != nil {
			out.Link = &models.LinkRef{
				ID:  idcodec.Encode(*res.LinkUUID),
				URL: h.linkURL(r, *res.LinkUUID),
			}
		}
		resp.Resolutions = append(resp.Resolutions, out)
	}
	respondJSON(w, http.StatusOK, resp)
}
