// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package api serves the similarity engine over HTTP.

Routes are mounted on a chi router (see NewRouter). Every JSON endpoint
answers with the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}
	{"status":"error","error":{"code":"NOT_FOUND","message":"..."},"metadata":{...}}

Read Endpoints:

  - GET /api/v1/similar?title=&min_support=&top_n=
  - GET /api/v1/items/stats?title=
  - GET /api/v1/items/top?by=mean|count&n=&min_count=
  - GET /api/v1/items/distribution?field=mean|count&bins=
  - GET /api/v1/status and /api/v1/status/performance
  - GET /api/v1/health/live and /api/v1/health/ready
  - GET /metrics (Prometheus)

Admin Endpoints (bearer token when a JWT secret is set, globally throttled):

  - POST /api/v1/admin/reload
  - POST /api/v1/admin/observations

Engine errors are mapped to status codes in one place, statusForError.
*/
package api
