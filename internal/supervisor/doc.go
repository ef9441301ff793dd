// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

/*
Package supervisor runs trafficdb's long-lived services under suture v4.

	RootSupervisor ("trafficdb")
	├── StorageSupervisor ("storage-layer")
	│   └── CheckpointService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff. Canceling the context passed to Serve
stops every service, waiting up to the configured shutdown timeout.
Supervisor events are logged through sutureslog onto the slog adapter of the
logging package.

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStorageService(services.NewCheckpointService(db, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
