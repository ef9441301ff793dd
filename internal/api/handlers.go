// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/cache"
	"github.com/tomtom215/trafficdb/internal/config"
	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/logging"
	"github.com/tomtom215/trafficdb/internal/models"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by resource:
//   - handlers_index.go: API index
//   - handlers_links.go: link collection and detail
//   - handlers_observations.go: observation time windows
//   - handlers_aliases.go: alias collection, creation and resolution
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	store       Store
	pageLimit   int
	maxDuration time.Duration

	// publicURL overrides the scheme, host and path prefix of generated URLs.
	publicURL *url.URL

	// links caches GetLinkByUUID results; nil when disabled.
	links *cache.LRU[uuid.UUID, models.Link]

	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a handler serving data from store.
//
// Page size and window limits come from cfg.API. When cfg.Server.PublicURL is
// set, every URL in a response is built on it; otherwise URLs are derived from
// each request's scheme and Host header.
func NewHandler(store Store, cfg *config.Config) *Handler {
	h := &Handler{
		store:       store,
		pageLimit:   config.DefaultPageLimit,
		maxDuration: config.DefaultMaxDuration,
		startTime:   time.Now(),
		now:         time.Now,
	}

	if cfg == nil {
		return h
	}
	if cfg.API.PageLimit > 0 {
		h.pageLimit = cfg.API.PageLimit
	}
	if cfg.API.MaxDuration > 0 {
		h.maxDuration = cfg.API.MaxDuration
	}
	if cfg.API.LinkCacheSize > 0 {
		h.links = cache.NewLRU[uuid.UUID, models.Link](cfg.API.LinkCacheSize, cfg.API.LinkCacheTTL)
	}
	if cfg.Server.PublicURL != "" {
		u, err := url.Parse(cfg.Server.PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logging.Warn().Str("public_url", cfg.Server.PublicURL).Msg("Ignoring invalid public URL")
		} else {
			u.Path = strings.TrimSuffix(u.Path, "/")
			u.RawQuery, u.Fragment = "", ""
			h.publicURL = u
		}
	}
	return h
}

// baseURL returns the externally visible root of the server.
func (h *Handler) baseURL(r *http.Request) url.URL {
	if h.publicURL != nil {
		return *h.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto == "http" || proto == "https" {
		scheme = proto
	}
	return url.URL{Scheme: scheme, Host: r.Host}
}

// absURL returns the absolute URL of path, which must start with "/".
func (h *Handler) absURL(r *http.Request, path string) string {
	u := h.baseURL(r)
	u.Path += path
	return u.String()
}

// currentURL returns the absolute URL of the request being served.
func (h *Handler) currentURL(r *http.Request) *url.URL {
	u := h.baseURL(r)
	u.Path += r.URL.Path
	u.RawQuery = r.URL.RawQuery
	return &u
}

func (h *Handler) linkURL(r *http.Request, id uuid.UUID) string {
	return h.absURL(r, "/api/links/"+idcodec.Encode(id)+"/")
}

func (h *Handler) observationsURL(r *http.Request, id uuid.UUID) string {
	return h.absURL(r, "/api/links/"+idcodec.Encode(id)+"/observations")
}
