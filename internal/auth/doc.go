// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package auth protects the administrative endpoints.

Reload and ingest mutate the served dataset, so they sit behind an HS256
bearer token when a JWT secret is configured, and behind a global token
bucket that caps how often the dataset can be rebuilt.

Key Components:

  - JWTManager: token generation and validation using HMAC-SHA256
  - Middleware: chi-compatible RequireAdmin and Throttle handlers

Read endpoints are never authenticated. With no secret configured the admin
endpoints are open, which suits local use of the report tooling.

Usage Example:

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AdminRatePerMinute, logger)
	r.With(mw.Throttle, mw.RequireAdmin).Post("/reload", h.Reload)
*/
package auth
