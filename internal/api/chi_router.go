// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/auth"
	"github.com/tomtom215/ratingcorr/internal/middleware"
	"github.com/tomtom215/ratingcorr/internal/models"
)

// RouterDeps groups what NewRouter wires together.
type RouterDeps struct {
	Handler *Handler
	Auth    *auth.Middleware
	Chi     *ChiMiddleware
	Monitor *middleware.PerformanceMonitor
	Logger  zerolog.Logger
}

// NewRouter mounts every route on a chi router.
//
//nolint:gocritic // hugeParam: deps is built once at startup
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Chi == nil {
		deps.Chi = NewChiMiddleware(nil)
	}
	h := deps.Handler

	r := chi.NewRouter()

	// Applied to all routes, outermost first.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.Chi.CORS())
	r.Use(middleware.PrometheusMetrics)
	if deps.Monitor != nil {
		r.Use(deps.Monitor.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusNotFound, &models.APIResponse{
			Status: models.StatusError,
			Error:  &models.APIError{Code: models.CodeNotFound, Message: "no such route"},
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusMethodNotAllowed, &models.APIResponse{
			Status: models.StatusError,
			Error:  &models.APIError{Code: models.CodeInvalidArgs, Message: "method not allowed"},
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.Chi.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/similar", h.Similar)
		r.Get("/items/stats", h.ItemStats)
		r.Get("/items/top", h.TopItems)
		r.Get("/items/distribution", h.Distribution)
		r.Get("/status", h.Status)
		r.Get("/status/performance", h.Performance)

		r.Route("/admin", func(r chi.Router) {
			if deps.Auth != nil {
				r.Use(deps.Auth.Throttle)
				r.Use(deps.Auth.RequireAdmin)
			}
			r.Post("/reload", h.Reload)
			r.Post("/observations", h.Ingest)
		})
	})

	return r
}
