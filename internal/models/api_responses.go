// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package models

// PageInfo describes one page of a collection.
//
// Example:
//
//	{"count": 20, "next": "https://host/api/links/?from=AbC..."}
type PageInfo struct {
	Count int    `json:"count"`
	Next  string `json:"next,omitempty"`
}

// Geometry is a GeoJSON geometry object.
type Geometry struct {
	Type        string  `json:"type"`
	Coordinates []Point `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection. Properties carries the
// page descriptor under "page".
type FeatureCollection struct {
	Type       string         `json:"type"`
	Features   []Feature      `json:"features"`
	Properties map[string]any `json:"properties"`
}

// NewLineStringGeometry converts a stored geometry to its GeoJSON form.
func NewLineStringGeometry(ls LineString) Geometry {
	coords := ls.Coordinates
	if coords == nil {
		coords = []Point{}
	}
	return Geometry{Type: "LineString", Coordinates: coords}
}

// LinkRef is the compact reference to a link used inside other responses.
type LinkRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// AliasResponse is one entry of the alias collection.
type AliasResponse struct {
	ID      string `json:"id"`
	LinkID  string `json:"linkId"`
	LinkURL string `json:"linkUrl"`
}

// ChannelValues holds the time series for one observation channel as
// [epoch milliseconds, value] pairs.
type ChannelValues struct {
	Values [][2]float64 `json:"values"`
}

// ObservationQuery echoes the resolved observation window back to the client.
type ObservationQuery struct {
	Start    int64  `json:"start"`
	Duration int64  `json:"duration"`
	Earlier  string `json:"earlier"`
	Later    string `json:"later"`
}

// LinkObservationsResponse is the body of GET /links/{id}/observations.
type LinkObservationsResponse struct {
	Link  LinkRef                  `json:"link"`
	Data  map[string]ChannelValues `json:"data"`
	Query ObservationQuery         `json:"query"`
}
