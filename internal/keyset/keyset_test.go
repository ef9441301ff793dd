// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package keyset

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
)

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		present bool
		want    int
		wantErr bool
	}{
		{"absent", "", false, 20, false},
		{"zero", "0", true, 0, false},
		{"small", "5", true, 5, false},
		{"at limit", "20", true, 20, false},
		{"above limit clamps", "1000", true, 20, false},
		{"empty", "", true, 0, true},
		{"negative", "-1", true, 0, true},
		{"float", "1.5", true, 0, true},
		{"word", "ten", true, 0, true},
		{"overflow", "99999999999999999999999", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCount(tt.raw, tt.present, 20)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCount) {
					t.Fatalf("ParseCount(%q) error = %v, want ErrInvalidCount", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCount(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	key := func(i int) string { return strconv.Itoa(i) }

	t.Run("extra row becomes next", func(t *testing.T) {
		page := Split([]int{1, 2, 3, 4}, 3, key)
		if len(page.Items) != 3 || page.Items[2] != 3 {
			t.Errorf("Items = %v, want [1 2 3]", page.Items)
		}
		if !page.HasNext || page.Next != "4" {
			t.Errorf("Next = %q (has %v), want 4", page.Next, page.HasNext)
		}
	})

	t.Run("short page has no next", func(t *testing.T) {
		page := Split([]int{1, 2}, 3, key)
		if len(page.Items) != 2 {
			t.Errorf("Items = %v, want [1 2]", page.Items)
		}
		if page.HasNext {
			t.Errorf("HasNext = true, want false")
		}
	})

	t.Run("zero count may still have next", func(t *testing.T) {
		page := Split([]int{7}, 0, key)
		if len(page.Items) != 0 {
			t.Errorf("Items = %v, want empty", page.Items)
		}
		if !page.HasNext || page.Next != "7" {
			t.Errorf("Next = %q, want 7", page.Next)
		}
	})

	t.Run("nil rows yield empty items", func(t *testing.T) {
		page := Split[int](nil, 5, key)
		if page.Items == nil || len(page.Items) != 0 {
			t.Errorf("Items = %#v, want empty non-nil slice", page.Items)
		}
	})

	t.Run("items cannot grow into the lookahead row", func(t *testing.T) {
		rows := []int{1, 2, 3}
		page := Split(rows, 2, key)
		_ = append(page.Items, 99)
		if rows[2] != 3 {
			t.Errorf("appending to Items overwrote the lookahead row")
		}
	})
}

func TestNextURL(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("http://localhost/api/links/?count=5&from=AAAA&x=1")
	if err != nil {
		t.Fatal(err)
	}

	got := NextURL(u, "BBBB")
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("NextURL produced unparsable URL %q: %v", got, err)
	}
	q := parsed.Query()
	if q.Get("from") != "BBBB" {
		t.Errorf("from = %q, want BBBB", q.Get("from"))
	}
	if q.Get("count") != "5" || q.Get("x") != "1" {
		t.Errorf("other params not preserved: %q", parsed.RawQuery)
	}
	if parsed.Path != "/api/links/" || parsed.Host != "localhost" {
		t.Errorf("path/host changed: %q", got)
	}
	if u.Query().Get("from") != "AAAA" {
		t.Errorf("NextURL modified its input")
	}

	// Cursors with reserved characters survive a round trip.
	got = NextURL(u, "a b&c")
	parsed, _ = url.Parse(got)
	if parsed.Query().Get("from") != "a b&c" {
		t.Errorf("from = %q, want %q", parsed.Query().Get("from"), "a b&c")
	}
}
