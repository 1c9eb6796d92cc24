// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Package recommend implements item-to-item similarity from rating correlation.
//
// # Architecture
//
// Data flows one way:
//
//	observations → RatingStore → RatingMatrix → Correlator → Recommend → ranked rows
//
//   - RatingStore holds validated observations and per-item aggregates.
//   - BuildMatrix turns the store into sparse item columns sorted by user id.
//   - Correlator computes pairwise-complete Pearson r between a reference column
//     and every column over the users who rated both.
//   - Recommend drops undefined correlations and low-volume items, then ranks.
//
// Engine ties these together behind a DataProvider, a SimilarityCache and
// Prometheus metrics.
//
// # Undefined Correlations
//
// A correlation over fewer than two shared users, or over a constant vector,
// has no value. It is carried as Undefined(reason) and never as 0 or NaN, so
// it cannot leak into a ranking.
//
// # Duplicate Ratings
//
// When a user rated the same item more than once, the matrix keeps the last
// rating in ingestion order. ItemStats still counts every observation.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.SetDataProvider(loader)
//	if err := engine.Load(ctx); err != nil {
//	    return err
//	}
//
//	resp, err := engine.Similar(ctx, recommend.Query{
//	    Title:      "Star Wars (1977)",
//	    MinSupport: 100,
//	    TopN:       10,
//	})
//
// # Thread Safety
//
// RatingMatrix is immutable and shared without locks. RatingStore allows
// concurrent readers; Ingest takes its write lock. Engine swaps whole
// snapshots, so queries never observe a half-loaded dataset.
package recommend
