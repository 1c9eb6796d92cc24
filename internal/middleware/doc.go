// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package middleware provides the HTTP middleware used by the API router.

Key Components:

  - RequestID: UUID request tracking, propagated into the logging context
  - PrometheusMetrics: request counts and latency labelled by chi route pattern
  - PerformanceMonitor: in-process latency percentiles served on /api/v1/status/performance
  - AccessLog: one structured zerolog line per request

Middleware Stack:

The router installs them in this order, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Route patterns rather than raw paths are used as metric labels, so
/api/v1/items/{title}/stats does not create one series per title.
*/
package middleware
