// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/trafficdb/internal/config"
	"github.com/tomtom215/trafficdb/internal/database"
	"github.com/tomtom215/trafficdb/internal/idcodec"
	"github.com/tomtom215/trafficdb/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests in this package.
var testDBSemaphore = make(chan struct{}, 1)

// testServer bundles a router with the database behind it.
type testServer struct {
	db      *database.DB
	handler *Handler
	router  http.Handler
}

// testConfig returns the default limits with rate limiting off.
func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			PageLimit:     config.DefaultPageLimit,
			MaxDuration:   config.DefaultMaxDuration,
			LinkCacheSize: 100,
			LinkCacheTTL:  time.Minute,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithConfig(t, testConfig())
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	h := NewHandler(db, cfg)
	return &testServer{
		db:      db,
		handler: h,
		router:  NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security))),
	}
}

// do serves one request. A non-nil body is sent as-is with contentType.
func (s *testServer) do(t *testing.T, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodGet, target, nil, "")
}

// sendJSON marshals v and sends it as application/json.
func (s *testServer) sendJSON(t *testing.T, method, target string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	return s.do(t, method, target, body, "application/json")
}

// createLinks stores n two-point links and returns them ordered by UUID.
func (s *testServer) createLinks(t *testing.T, n int) []models.Link {
	t.Helper()

	geoms := make([]models.LineString, n)
	for i := range geoms {
		x := float64(i * 10)
		geoms[i] = models.LineString{Coordinates: []models.Point{{x, 0}, {x + 1, 1}}}
	}
	links, err := s.db.CreateLinks(context.Background(), geoms)
	if err != nil {
		t.Fatalf("Failed to create links: %v", err)
	}
	sortLinks(links)
	return links
}

func (s *testServer) createAliases(t *testing.T, aliases ...models.NewLinkAlias) {
	t.Helper()
	if _, err := s.db.CreateLinkAliases(context.Background(), aliases); err != nil {
		t.Fatalf("Failed to create aliases: %v", err)
	}
}

func sortLinks(links []models.Link) {
	slices.SortFunc(links, func(a, b models.Link) int {
		return bytes.Compare(a.UUID[:], b.UUID[:])
	})
}

// requestURI turns an absolute URL from a response into a path for the
// next request.
func requestURI(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse URL %q: %v", raw, err)
	}
	return u.RequestURI()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// checkErrorCode asserts an error envelope with the given code.
func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	checkStatus(t, rec, status)

	var body errorEnvelope
	decodeJSON(t, rec, &body)
	if body.Error.Code != code {
		t.Errorf("Expected error code %q, got %q", code, body.Error.Code)
	}
}

func token(id uuid.UUID) string {
	return idcodec.Encode(id)
}

var obsBase = time.Date(2013, 4, 29, 12, 0, 0, 0, time.UTC)
