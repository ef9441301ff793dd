// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package models defines the data structures shared by storage and the API.

Database Models:
  - Link: a directed road segment with a LineString geometry
  - Observation: one measured value on one link at one instant
  - LinkAlias: a unique human-readable name pointing at a link

Query Models:
  - ObservationType: closed enumeration of measurement channels
  - DateRange: earliest and latest observation instants
  - AliasResolution: the outcome of resolving one alias name

API Models:
  - Feature and FeatureCollection: GeoJSON shapes for link responses
  - PageInfo: the pagination descriptor attached to collection responses
*/
package models
