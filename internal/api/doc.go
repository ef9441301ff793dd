// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package api provides the HTTP interface for trafficdb.

Routes are served by a Chi router (see NewRouter). Everything under /api is
JSON and every URL in a response body is absolute.

# Resources

	GET   /api/                            index of resources
	GET   /api/links/                      page of links as a GeoJSON FeatureCollection
	PATCH /api/links/                      create links
	GET   /api/links/{linkID}/             one link as a GeoJSON Feature
	GET   /api/links/{linkID}/observations observations in a time window
	GET   /api/aliases/                    page of aliases ordered by name
	PATCH /api/aliases/                    create aliases
	POST  /api/aliases/resolve             resolve alias names to links
	GET   /health/live, /health/ready      probes
	GET   /metrics                         Prometheus exposition

The collection paths without a trailing slash answer with 301 to the slashed
form, keeping the query string.

# Pagination

Collections take "count" (default and maximum is the configured page limit)
and "from" (an inclusive lower bound). When more rows exist, the page
descriptor carries "next", the current URL with "from" replaced by the key of
the first row of the following page.

Link cursors are identifier tokens. A malformed one answers 404, the same as a
malformed link id in a path. Alias cursors are arbitrary strings.

# Errors

Failures use a single envelope:

	{"error": {"code": "NOT_FOUND", "message": "Not found", "request_id": "..."}}

Handlers never write storage error text for 404 or 500 responses.
*/
package api
