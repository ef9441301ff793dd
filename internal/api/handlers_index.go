// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import "net/http"

// apiVersion is reported by the index and bumped on incompatible changes.
const apiVersion = 1

type indexResources struct {
	Links       string `json:"links"`
	LinkAliases string `json:"linkAliases"`
}

type indexResponse struct {
	Version   int            `json:"version"`
	Resources indexResources `json:"resources"`
}

// Index lists the top-level resources.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, indexResponse{
		Version: apiVersion,
		Resources: indexResources{
			Links:       h.absURL(r, "/api/links/"),
			LinkAliases: h.absURL(r, "/api/aliases/"),
		},
	})
}
