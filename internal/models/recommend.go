// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package models

import (
	"time"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// SimilarRequest is the query string of GET /api/v1/similar.
// Pointer fields distinguish "absent" from zero so server defaults can apply.
type SimilarRequest struct {
	Title      string `query:"title" validate:"required,notblank,max=512"`
	MinSupport *int   `query:"min_support" validate:"omitempty,gte=0"`
	TopN       *int   `query:"top_n" validate:"omitempty,min=1"`
}

// TopItemsRequest is the query string of GET /api/v1/items/top.
type TopItemsRequest struct {
	By       string `query:"by" validate:"omitempty,oneof=mean count"`
	N        int    `query:"n" validate:"omitempty,min=1,max=1000"`
	MinCount int    `query:"min_count" validate:"gte=0"`
}

// ItemStatsRequest is the query string of GET /api/v1/items/stats.
type ItemStatsRequest struct {
	Title string `query:"title" validate:"required,notblank,max=512"`
}

// DistributionRequest is the query string of GET /api/v1/items/distribution.
type DistributionRequest struct {
	Field string `query:"field" validate:"omitempty,oneof=mean count"`
	Bins  int    `query:"bins" validate:"omitempty,min=1,max=200"`
}

// DistributionResponse is an equal-width histogram over every rated item.
type DistributionResponse struct {
	Field  string    `json:"field"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Width  float64   `json:"width"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// StatusResponse describes the served dataset and query counters.
type StatusResponse struct {
	Dataset     recommend.Status `json:"dataset"`
	Requests    int64            `json:"requests"`
	CacheHits   int64            `json:"cache_hits"`
	CacheMisses int64            `json:"cache_misses"`
	Errors      int64            `json:"errors"`
	Breaker     string           `json:"breaker,omitempty"`
}

// ItemStatsView is one item's aggregate as returned by the API.
type ItemStatsView struct {
	Title       string  `json:"title"`
	MeanRating  float64 `json:"mean_rating"`
	RatingCount int     `json:"rating_count"`
}

// TopItemsResponse lists ranked items.
type TopItemsResponse struct {
	By    string          `json:"by"`
	Items []ItemStatsView `json:"items"`
}

// IngestRequest is the body of POST /admin/observations.
type IngestRequest struct {
	Observations []recommend.Observation `json:"observations" validate:"required,min=1,max=100000,dive"`
}

// IngestResponse reports an accepted batch.
type IngestResponse struct {
	Accepted     int    `json:"accepted"`
	StoreVersion uint64 `json:"store_version"`
}

// ReloadResponse reports a completed reload.
type ReloadResponse struct {
	Status     recommend.Status `json:"status"`
	DurationMS int64            `json:"duration_ms"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Loaded    bool      `json:"loaded"`
	Uptime    float64   `json:"uptime_seconds"`
	Timestamp time.Time `json:"timestamp"`
}
