// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package models

import (
	"github.com/google/uuid"
)

// DefaultSRID is the spatial reference of every stored geometry (British
// National Grid, metres).
const DefaultSRID = 27700

// Point is one x, y coordinate pair in the geometry's SRID.
type Point [2]float64

// LineString is an ordered polyline of at least two points.
type LineString struct {
	SRID        int     `json:"-"`
	Coordinates []Point `json:"coordinates" validate:"min=2"`
}

// Link is a directed road segment.
//
// ID is the internal surrogate key used for joins and never leaves the
// process. UUID is the public identifier, exposed as an idcodec token.
type Link struct {
	ID       int64
	UUID     uuid.UUID
	Geometry LineString
}

// LinkAlias maps a unique name to a link.
type LinkAlias struct {
	ID       int64
	Name     string
	LinkID   int64
	LinkUUID uuid.UUID
}

// NewLinkAlias is an alias to be created, addressed by the link's public UUID.
type NewLinkAlias struct {
	Name     string
	LinkUUID uuid.UUID
}

// AliasResolution is the result of resolving one name. LinkUUID is nil when
// no alias with that name exists.
type AliasResolution struct {
	Name     string
	LinkUUID *uuid.UUID
}

// Resolved reports whether the name matched an alias.
func (r AliasResolution) Resolved() bool {
	return r.LinkUUID != nil
}
