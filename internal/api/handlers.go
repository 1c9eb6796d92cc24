// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"time"

	"github.com/tomtom215/ratingcorr/internal/middleware"
	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// Handler holds the dependencies of every endpoint.
type Handler struct {
	engine  *recommend.Engine
	monitor *middleware.PerformanceMonitor

	// breakerState reports the dataset breaker state; nil when no breaker is used.
	breakerState func() string

	defaultMinSupport int
	startTime         time.Time
}

// NewHandler creates the endpoint handlers. monitor may be nil.
func NewHandler(engine *recommend.Engine, monitor *middleware.PerformanceMonitor) *Handler {
	return &Handler{
		engine:            engine,
		monitor:           monitor,
		defaultMinSupport: engine.GetConfig().Limits.DefaultMinSupport,
		startTime:         time.Now(),
	}
}

// SetBreakerState exposes the dataset breaker on /api/v1/status.
func (h *Handler) SetBreakerState(fn func() string) {
	h.breakerState = fn
}
