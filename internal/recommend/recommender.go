// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"sort"
)

// Recommend turns correlation results into a ranked list.
//
// Undefined correlations are dropped, as are items whose total rating count
// (not their overlap with the reference) is below minSupport. Survivors are
// ordered by correlation descending, then rating count descending, then title
// ascending, and cut to topN. An empty, non-nil slice is returned when nothing
// survives.
func Recommend(results map[string]SimilarityResult, stats map[string]ItemStats, minSupport, topN int) ([]Recommendation, error) {
	if minSupport < 0 {
		return nil, invalidArgumentf("min_support must be non-negative, got %d", minSupport)
	}
	if topN < 1 {
		return nil, invalidArgumentf("top_n must be at least 1, got %d", topN)
	}

	recs := make([]Recommendation, 0, len(results))
	for title, res := range results {
		r, ok := res.Correlation.Value()
		if !ok {
			continue
		}
		st := stats[title]
		if st.RatingCount < minSupport {
			continue
		}
		recs = append(recs, Recommendation{
			Title:       title,
			Correlation: r,
			RatingCount: st.RatingCount,
			MeanRating:  st.MeanRating,
			Support:     res.Support,
		})
	}

	SortRecommendations(recs)

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// SortRecommendations orders recs by correlation, rating count and title.
func SortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Correlation != b.Correlation {
			return a.Correlation > b.Correlation
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.Title < b.Title
	})
}
