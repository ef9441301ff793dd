// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package services adapts trafficdb components to suture's Serve(ctx) error
lifecycle.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a drain timeout.

CheckpointService periodically checkpoints DuckDB. After three failures in a
row it returns an error and the supervisor restarts it with backoff.

Both implement fmt.Stringer so supervisor events name them.
*/
package services
