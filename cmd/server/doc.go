// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package main is the ratingcorr HTTP server.

It loads the MovieLens ratings and titles files, builds the item correlation
matrix and serves item-to-item recommendations over a JSON API.

# Process Layout

	RootSupervisor ("ratingcorr")
	├── DataSupervisor ("data-layer")
	│   └── ReloadService (RELOAD_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Startup order:

 1. Configuration: koanf v2 layering defaults, config.yaml and the environment
 2. Logging: zerolog, JSON or console
 3. Engine: recommend.Engine with an LRU cache, plus a BadgerDB tier when CACHE_PATH is set
 4. Dataset: DuckDB file reader behind a gobreaker circuit breaker
 5. Initial load: failures are logged and /api/v1/health/ready reports 503
 6. Auth: admin endpoints require a JWT when JWT_SECRET is set
 7. Supervisor tree: suture v4 runs the reload scheduler and the HTTP server

# Endpoints

	GET  /api/v1/similar?title=Star+Wars+(1977)&min_support=100&top_n=10
	GET  /api/v1/items/stats?title=...
	GET  /api/v1/items/top?by=mean|count&n=10&min_count=0
	GET  /api/v1/items/distribution?field=count|mean&bins=20
	GET  /api/v1/status
	GET  /api/v1/status/performance
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	POST /admin/reload
	POST /admin/observations
	GET  /metrics

# Example

	export RATINGS_PATH=data/u.data
	export TITLES_PATH=data/Movie_Id_Titles
	export JWT_SECRET=$(openssl rand -base64 32)
	./ratingcorr-server

Tokens for the admin endpoints come from the token command:

	./ratingcorr-token -user ops

SIGINT and SIGTERM stop the tree; in-flight requests get HTTP_SHUTDOWN_TIMEOUT
to finish.
*/
package main
