// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package supervisor runs the long-lived parts of ratingcorr under suture v4.

The tree has two layers so a failing reload loop never takes the API down:

	RootSupervisor ("ratingcorr")
	├── DataSupervisor ("data-layer")
	│   └── ReloadService (if dataset.reload_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's exponential backoff. Supervisor
events are logged through sutureslog, which in turn writes to zerolog via
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewReloadService(engine, interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
