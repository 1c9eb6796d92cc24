// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package metrics provides Prometheus metrics for the similarity service.

# Overview

The package provides metrics for:
  - Dataset loads and incremental ingestion
  - Rating matrix rebuilds
  - Similarity query latency and outcomes
  - Similarity cache hit/miss rates per tier
  - HTTP request latency and throughput

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Dataset Metrics:
  - ratingcorr_dataset_load_duration_seconds (histogram)
  - ratingcorr_dataset_load_errors_total (counter), labels: error_type
  - ratingcorr_observations_ingested_total (counter)
  - ratingcorr_store_items, ratingcorr_store_users (gauges)

Query Metrics:
  - ratingcorr_query_duration_seconds (histogram), labels: cache
  - ratingcorr_correlations_total (counter), labels: outcome
  - ratingcorr_recommendations_returned (histogram)

Cache Metrics:
  - ratingcorr_cache_hits_total, ratingcorr_cache_misses_total (counters), labels: tier

API Metrics:
  - api_requests_total (counter), labels: method, endpoint, status_code
  - api_request_duration_seconds (histogram), labels: method, endpoint
  - api_active_requests (gauge)

All collectors register with the default Prometheus registry through promauto.
*/
package metrics
