// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ratingcorr/internal/middleware"
	"github.com/tomtom215/ratingcorr/internal/models"
)

// HealthLive handles GET /api/v1/health/live. The process is up if it answers.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.HealthResponse{
		Status:    "alive",
		Loaded:    h.engine.Ready(),
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready. It fails until a dataset is installed.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status:    "ready",
		Loaded:    h.engine.Ready(),
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}
	if health.Loaded {
		respondSuccess(w, r, health, models.Metadata{})
		return
	}

	health.Status = "not_ready"
	respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
		Status: models.StatusError,
		Data:   health,
		Error:  &models.APIError{Code: models.CodeNotLoaded, Message: "no dataset loaded"},
	})
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	requests, hits, misses, errs := h.engine.Counters()
	resp := models.StatusResponse{
		Dataset:     h.engine.Status(),
		Requests:    requests,
		CacheHits:   hits,
		CacheMisses: misses,
		Errors:      errs,
	}
	if h.breakerState != nil {
		resp.Breaker = h.breakerState()
	}
	respondSuccess(w, r, resp, models.Metadata{})
}

// Performance handles GET /api/v1/status/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	stats := []middleware.EndpointStats{}
	if h.monitor != nil {
		stats = h.monitor.Stats()
	}
	respondSuccess(w, r, stats, models.Metadata{})
}
