// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ratingcorr_dataset_load_duration_seconds",
			Help:    "Duration of full dataset loads in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	DatasetLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_dataset_load_errors_total",
			Help: "Total number of failed dataset loads",
		},
		[]string{"error_type"},
	)

	DatasetLastLoad = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratingcorr_dataset_last_load_timestamp",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)

	ObservationsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratingcorr_observations_ingested_total",
			Help: "Total number of rating observations accepted by the store",
		},
	)

	ObservationsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratingcorr_observations_rejected_total",
			Help: "Total number of ingest batches rejected by validation",
		},
	)

	StoreItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratingcorr_store_items",
			Help: "Number of items with at least one rating",
		},
	)

	StoreUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratingcorr_store_users",
			Help: "Number of distinct users in the store",
		},
	)

	// Matrix Metrics
	MatrixBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ratingcorr_matrix_build_duration_seconds",
			Help:    "Duration of rating matrix builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	MatrixVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratingcorr_matrix_version",
			Help: "Store version the live rating matrix was built from",
		},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratingcorr_query_duration_seconds",
			Help:    "Duration of similarity queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"cache"}, // "hit", "miss"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_query_errors_total",
			Help: "Total number of failed similarity queries",
		},
		[]string{"error_type"},
	)

	CorrelationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_correlations_total",
			Help: "Total number of candidate correlations computed",
		},
		[]string{"outcome"}, // "defined", "insufficient_overlap", "zero_variance"
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ratingcorr_recommendations_returned",
			Help:    "Number of rows returned per similarity query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_cache_hits_total",
			Help: "Total number of similarity cache hits",
		},
		[]string{"tier"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_cache_misses_total",
			Help: "Total number of similarity cache misses",
		},
		[]string{"tier"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingcorr_cache_errors_total",
			Help: "Total number of similarity cache backend errors",
		},
		[]string{"tier", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	APIAuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of rejected admin requests by reason",
		},
		[]string{"reason"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)
)

// RecordLoad records a dataset load. errorType is empty on success.
func RecordLoad(duration time.Duration, observations, items, users int, errorType string) {
	DatasetLoadDuration.Observe(duration.Seconds())
	if errorType != "" {
		DatasetLoadErrors.WithLabelValues(errorType).Inc()
		return
	}
	ObservationsIngested.Add(float64(observations))
	StoreItems.Set(float64(items))
	StoreUsers.Set(float64(users))
	DatasetLastLoad.Set(float64(time.Now().Unix()))
}

// RecordIngest records an incremental ingest batch.
func RecordIngest(observations int, err error) {
	if err != nil {
		ObservationsRejected.Inc()
		return
	}
	ObservationsIngested.Add(float64(observations))
}

// RecordMatrixBuild records a matrix rebuild.
func RecordMatrixBuild(duration time.Duration, version uint64) {
	MatrixBuildDuration.Observe(duration.Seconds())
	MatrixVersion.Set(float64(version))
}

// RecordQuery records a similarity query. errorType is empty on success.
func RecordQuery(duration time.Duration, cacheHit bool, returned int, errorType string) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	QueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	if errorType != "" {
		QueryErrors.WithLabelValues(errorType).Inc()
		return
	}
	RecommendationsReturned.Observe(float64(returned))
}

// RecordCorrelations records per-outcome counts from one correlation pass.
func RecordCorrelations(outcomes map[string]int) {
	for outcome, n := range outcomes {
		CorrelationsComputed.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordCacheLookup records a cache hit or miss for a tier.
func RecordCacheLookup(tier string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(tier).Inc()
	} else {
		CacheMisses.WithLabelValues(tier).Inc()
	}
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(tier, operation string) {
	CacheErrors.WithLabelValues(tier, operation).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBreakerTransition records a circuit breaker state change.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordBreakerRequest records one call through a circuit breaker.
// result is success, failure or rejected.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordAuthFailure records a rejected admin request.
func RecordAuthFailure(reason string) {
	APIAuthFailures.WithLabelValues(reason).Inc()
}
