// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package metrics defines the Prometheus instrumentation for trafficdb.
//
// All collectors register with the default registry through promauto and are
// exposed by the API router at /metrics.
package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Traffic Query Metrics
	PageItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trafficdb_page_items",
			Help:    "Number of items returned per collection page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"collection"},
	)

	ObservationsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trafficdb_observations_returned",
			Help:    "Number of observations returned per link window query, by channel",
			Buckets: []float64{0, 10, 50, 100, 300, 1000, 5000},
		},
		[]string{"channel"},
	)

	AliasResolveBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trafficdb_alias_resolve_batch_size",
			Help:    "Number of names submitted per alias resolve call",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	AliasResolveResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trafficdb_alias_resolutions_total",
			Help: "Total number of alias names resolved, by outcome",
		},
		[]string{"result"}, // "resolved", "unresolved"
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trafficdb_cache_lookups_total",
			Help: "Total number of in-process cache lookups, by result",
		},
		[]string{"cache", "result"}, // result: "hit", "miss"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, classifyError(err)).Inc()
	}
}

// classifyError maps an error onto a small fixed label set so the error
// counter has bounded cardinality.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "constraint"),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "integrity"):
		return "constraint"
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "database is closed"):
		return "connection"
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	default:
		return "other"
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPage records the size of a returned collection page.
func RecordPage(collection string, items int) {
	PageItemsReturned.WithLabelValues(collection).Observe(float64(items))
}

// RecordObservations records how many observations one channel returned.
func RecordObservations(channel string, count int) {
	ObservationsReturned.WithLabelValues(channel).Observe(float64(count))
}

// RecordAliasResolve records one resolve batch.
func RecordAliasResolve(requested, resolved int) {
	AliasResolveBatchSize.Observe(float64(requested))
	AliasResolveResults.WithLabelValues("resolved").Add(float64(resolved))
	AliasResolveResults.WithLabelValues("unresolved").Add(float64(requested - resolved))
}

// RecordCacheLookup records one cache lookup.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}
