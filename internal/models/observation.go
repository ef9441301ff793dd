// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package models

import (
	"fmt"
	"strings"
	"time"
)

// ObservationType is the measurement channel of an observation.
type ObservationType int

const (
	// ObservationSpeed is the mean vehicle speed.
	ObservationSpeed ObservationType = iota + 1
	// ObservationFlow is the vehicle count per unit time.
	ObservationFlow
	// ObservationOccupancy is the fraction of time a detector is occupied.
	ObservationOccupancy
)

// ObservationTypes lists every channel in response order.
var ObservationTypes = []ObservationType{
	ObservationSpeed,
	ObservationFlow,
	ObservationOccupancy,
}

var observationTypeNames = map[ObservationType]string{
	ObservationSpeed:     "SPEED",
	ObservationFlow:      "FLOW",
	ObservationOccupancy: "OCCUPANCY",
}

// String returns the stored name, e.g. "SPEED".
func (t ObservationType) String() string {
	if name, ok := observationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ObservationType(%d)", int(t))
}

// Channel returns the key used for this type in observation responses, e.g. "speed".
func (t ObservationType) Channel() string {
	return strings.ToLower(t.String())
}

// Valid reports whether t is one of the defined channels.
func (t ObservationType) Valid() bool {
	_, ok := observationTypeNames[t]
	return ok
}

// ParseObservationType parses a channel name case-insensitively.
func ParseObservationType(s string) (ObservationType, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range observationTypeNames {
		if name == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown observation type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ObservationType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid observation type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ObservationType) UnmarshalText(b []byte) error {
	parsed, err := ParseObservationType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Observation is one measured value on one link at one instant.
type Observation struct {
	ID         int64
	Value      float64
	Type       ObservationType
	ObservedAt time.Time
	LinkID     int64
}

// DateRange holds the earliest and latest observation instants. Both are nil
// when no observations exist.
type DateRange struct {
	Min *time.Time
	Max *time.Time
}

// Empty reports whether the range has no bounds.
func (r DateRange) Empty() bool {
	return r.Min == nil || r.Max == nil
}
