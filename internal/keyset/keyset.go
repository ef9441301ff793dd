// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package keyset implements forward-only keyset pagination.
//
// A page is requested with an inclusive lower bound ("from") and a count.
// Storage fetches count+1 rows ordered by key with key >= from; the extra row,
// when present, is not returned but its key becomes the next cursor. Pages
// never skip or repeat rows as long as keys are unique.
package keyset

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrInvalidCount is returned when a requested page size is not a
// non-negative integer.
var ErrInvalidCount = errors.New("count must be a non-negative integer")

// Page is one slice of an ordered collection.
type Page[T any] struct {
	Items []T

	// Next is the key of the first row after this page. Only meaningful when
	// HasNext is true.
	Next    string
	HasNext bool
}

// ParseCount validates a raw "count" query value.
//
// An absent value means limit. Values above limit are clamped to it.
// Present-but-empty, non-integer and negative values fail with ErrInvalidCount.
func ParseCount(raw string, present bool, limit int) (int, error) {
	if !present {
		return limit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	return min(n, limit), nil
}

// FetchLimit is the number of rows storage should read for a page of count.
func FetchLimit(count int) int {
	return count + 1
}

// Split turns up to count+1 ordered rows into a page. key renders the cursor
// for a row.
func Split[T any](rows []T, count int, key func(T) string) Page[T] {
	if len(rows) > count {
		return Page[T]{
			Items:   rows[:count:count],
			Next:    key(rows[count]),
			HasNext: true,
		}
	}
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Items: rows}
}

// NextURL returns current with its "from" query parameter replaced by cursor.
// All other query parameters are preserved. current is not modified.
func NextURL(current *url.URL, cursor string) string {
	u := *current
	q := u.Query()
	q.Set("from", cursor)
	u.RawQuery = q.Encode()
	return u.String()
}
