// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package middleware provides HTTP middleware for the traffic API.

Components:

  - RequestID: honours or generates X-Request-ID and stores it in the context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight gauge

All middleware has the http.HandlerFunc -> http.HandlerFunc shape. The api
package adapts it to chi's r.Use.

Endpoint labels use the matched chi route pattern (for example
"/api/links/{id}/observations") rather than the raw path, so link
identifiers never become metric labels.
*/
package middleware
