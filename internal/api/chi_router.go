// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/trafficdb/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// NewRouter configures all HTTP routes. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, codeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", h.Index)

		r.Get("/links", h.RedirectWithSlash)
		r.Get("/links/", h.ListLinks)
		r.Patch("/links/", h.PatchLinks)
		r.Get("/links/{linkID}", h.RedirectWithSlash)
		r.Get("/links/{linkID}/", h.GetLink)
		r.Get("/links/{linkID}/observations", h.LinkObservations)

		r.Get("/aliases", h.RedirectWithSlash)
		r.Get("/aliases/", h.ListAliases)
		r.Patch("/aliases/", h.PatchAliases)
		r.Post("/aliases/resolve", h.ResolveAliases)
	})

	return r
}

// RedirectWithSlash answers 301 with the request URL plus a trailing slash,
// keeping the query string.
func (h *Handler) RedirectWithSlash(w http.ResponseWriter, r *http.Request) {
	u := h.currentURL(r)
	u.Path += "/"
	http.Redirect(w, r, u.String(), http.StatusMovedPermanently)
}
