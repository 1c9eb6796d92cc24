// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/ratingcorr/internal/auth"
	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/models"
)

// Reload handles POST /api/v1/admin/reload. The load is detached from the
// client connection and bounded by the engine's load timeout instead.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.Ctx(r.Context())
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		logger.Info().Str("user", claims.Username).Msg("Dataset reload requested")
	}

	if err := h.engine.Load(context.WithoutCancel(r.Context())); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, r, models.ReloadResponse{
		Status:     h.engine.Status(),
		DurationMS: time.Since(start).Milliseconds(),
	}, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// Ingest handles POST /api/v1/admin/observations. The batch is applied
// atomically: one invalid observation rejects all of them.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeIngestRequest(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.engine.Ingest(req.Observations); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, r, models.IngestResponse{
		Accepted:     len(req.Observations),
		StoreVersion: h.engine.Status().StoreVersion,
	}, models.Metadata{})
}
