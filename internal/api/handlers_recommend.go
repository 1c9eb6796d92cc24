// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"net/http"

	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/models"
	"github.com/tomtom215/ratingcorr/internal/recommend"
	"github.com/tomtom215/ratingcorr/internal/report"
)

// Similar handles GET /api/v1/similar.
// min_support falls back to the configured default when absent; top_n falls
// back to the engine default and is capped at its maximum.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	req, err := parseSimilarRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	q := recommend.Query{
		Title:      req.Title,
		MinSupport: h.defaultMinSupport,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	}
	if req.MinSupport != nil {
		q.MinSupport = *req.MinSupport
	}
	if req.TopN != nil {
		q.TopN = *req.TopN
	}

	resp, err := h.engine.Similar(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, models.Metadata{
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// ItemStats handles GET /api/v1/items/stats.
func (h *Handler) ItemStats(w http.ResponseWriter, r *http.Request) {
	req, err := parseItemStatsRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	st, err := h.engine.Stats(req.Title)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, r, models.ItemStatsView{
		Title:       req.Title,
		MeanRating:  st.MeanRating,
		RatingCount: st.RatingCount,
	}, models.Metadata{})
}

// TopItems handles GET /api/v1/items/top.
func (h *Handler) TopItems(w http.ResponseWriter, r *http.Request) {
	req, err := parseTopItemsRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	stats, err := h.engine.AllStats()
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := report.Rank(stats, req.By, req.N, req.MinCount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]models.ItemStatsView, len(rows))
	for i, row := range rows {
		items[i] = models.ItemStatsView{Title: row.Title, MeanRating: row.MeanRating, RatingCount: row.RatingCount}
	}
	respondSuccess(w, r, models.TopItemsResponse{By: req.By, Items: items}, models.Metadata{})
}

// Distribution handles GET /api/v1/items/distribution.
func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	req, err := parseDistributionRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	stats, err := h.engine.AllStats()
	if err != nil {
		respondError(w, r, err)
		return
	}

	hist, err := report.Distribution(stats, req.Field, req.Bins)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, r, models.DistributionResponse{
		Field:  req.Field,
		Min:    hist.Min,
		Max:    hist.Max,
		Width:  hist.Width,
		Edges:  hist.Edges(),
		Counts: hist.Counts,
	}, models.Metadata{})
}
