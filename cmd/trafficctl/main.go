// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package main provides trafficctl, the trafficdb management CLI.
//
// It opens the same DuckDB database as the server, using the same
// configuration sources, and runs maintenance tasks against it:
//
//	trafficctl migrate --history
//	trafficctl seed --links 50 --aliases 100 --start 2012-04-23T00:00:00Z --minutes 1440
//	trafficctl reset
//	trafficctl explain observations --links 10 --type speed
//	trafficctl explain aliases --names 20
//	trafficctl resolve M25-J10 A3-north
//
// DuckDB allows one writer process, so stop the server before running
// commands that write.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, app := newRootCmd()
	err := root.Execute()
	if closeErr := app.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
