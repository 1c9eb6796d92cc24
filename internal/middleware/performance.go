// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestSample is one completed request.
type RequestSample struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// EndpointStats summarises the samples of one method and route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MinDuration  int64   `json:"min_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps a sliding window of request samples.
type PerformanceMonitor struct {
	mu          sync.RWMutex
	samples     []RequestSample
	maxSamples  int
	slowRequest time.Duration
	logger      zerolog.Logger
}

// NewPerformanceMonitor keeps the last maxSamples requests and warns on
// requests slower than slowRequest. A zero slowRequest disables the warning.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceMonitor(maxSamples int, slowRequest time.Duration, logger zerolog.Logger) *PerformanceMonitor {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &PerformanceMonitor{
		samples:     make([]RequestSample, 0, maxSamples),
		maxSamples:  maxSamples,
		slowRequest: slowRequest,
		logger:      logger.With().Str("component", "performance").Logger(),
	}
}

// Record adds a sample, dropping the oldest when the window is full.
func (pm *PerformanceMonitor) Record(sample RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.samples) == pm.maxSamples {
		copy(pm.samples, pm.samples[1:])
		pm.samples = pm.samples[:len(pm.samples)-1]
	}
	pm.samples = append(pm.samples, sample)
}

// Stats returns per-endpoint statistics, busiest endpoint first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	grouped := make(map[string][]RequestSample)
	for _, s := range pm.samples {
		key := s.Method + " " + s.Route
		grouped[key] = append(grouped[key], s)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(grouped))
	for endpoint, samples := range grouped {
		durations := make([]int64, len(samples))
		var sum, errs int64
		for i, s := range samples {
			durations[i] = s.DurationMS
			sum += s.DurationMS
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(durations)),
			ErrorCount:   errs,
			AvgDuration:  float64(sum) / float64(len(durations)),
			P50Duration:  percentile(durations, 0.50),
			P95Duration:  percentile(durations, 0.95),
			P99Duration:  percentile(durations, 0.99),
			MinDuration:  durations[0],
			MaxDuration:  durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Recent returns up to n of the newest samples, oldest first.
func (pm *PerformanceMonitor) Recent(n int) []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if n > len(pm.samples) {
		n = len(pm.samples)
	}
	if n < 0 {
		n = 0
	}
	out := make([]RequestSample, n)
	copy(out, pm.samples[len(pm.samples)-n:])
	return out
}

// Middleware records every request passing through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		elapsed := time.Since(start)
		route := routePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})

		if pm.slowRequest > 0 && elapsed > pm.slowRequest {
			pm.logger.Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", elapsed).
				Dur("threshold", pm.slowRequest).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
