// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Package report produces the exploratory views of a rating dataset: items
// ranked by mean rating or by rating count, the distributions of both, and
// plain-text tables for the console.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// Ordering names accepted by Rank.
const (
	ByMean  = "mean"
	ByCount = "count"
)

// Row is one ranked item.
type Row struct {
	Title       string  `json:"title"`
	MeanRating  float64 `json:"mean_rating"`
	RatingCount int     `json:"rating_count"`
}

// Rank orders items by mean rating or by rating count and returns the first n.
// Items with fewer than minCount ratings are skipped. Ties break on the other
// measure, then on title. n <= 0 returns every eligible item.
func Rank(stats map[string]recommend.ItemStats, by string, n, minCount int) ([]Row, error) {
	if by != ByMean && by != ByCount {
		return nil, fmt.Errorf("%w: unknown ordering %q", recommend.ErrInvalidArgument, by)
	}

	rows := make([]Row, 0, len(stats))
	for title, st := range stats {
		if st.RatingCount == 0 || st.RatingCount < minCount {
			continue
		}
		rows = append(rows, Row{Title: title, MeanRating: st.MeanRating, RatingCount: st.RatingCount})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if by == ByCount {
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
			if a.MeanRating != b.MeanRating {
				return a.MeanRating > b.MeanRating
			}
		} else {
			if a.MeanRating != b.MeanRating {
				return a.MeanRating > b.MeanRating
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		}
		return a.Title < b.Title
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// TopByMean returns the n items with the highest mean rating.
func TopByMean(stats map[string]recommend.ItemStats, n int) []Row {
	rows, _ := Rank(stats, ByMean, n, 0)
	return rows
}

// TopByCount returns the n most-rated items.
func TopByCount(stats map[string]recommend.ItemStats, n int) []Row {
	rows, _ := Rank(stats, ByCount, n, 0)
	return rows
}

// Histogram is an equal-width binning of a set of values.
type Histogram struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Width  float64 `json:"width"`
	Counts []int   `json:"counts"`
}

// NewHistogram bins values into bins equal-width buckets spanning [min, max].
// The last bucket is closed so the maximum is counted. When every value is
// equal the span is widened by 0.5 on each side.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("%w: bins must be at least 1, got %d", recommend.ErrInvalidArgument, bins)
	}
	h := Histogram{Counts: make([]int, bins)}
	if len(values) == 0 {
		return h, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	h.Min, h.Max = lo, hi
	h.Width = (hi - lo) / float64(bins)

	for _, v := range values {
		i := int((v - lo) / h.Width)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}
	return h, nil
}

// Edges returns the lower edge of every bucket.
func (h Histogram) Edges() []float64 {
	edges := make([]float64, len(h.Counts))
	for i := range edges {
		edges[i] = h.Min + float64(i)*h.Width
	}
	return edges
}

// Distribution bins the rating counts (field "count") or the mean ratings
// (field "mean") of every rated item.
func Distribution(stats map[string]recommend.ItemStats, field string, bins int) (Histogram, error) {
	if field != ByMean && field != ByCount {
		return Histogram{}, fmt.Errorf("%w: unknown field %q", recommend.ErrInvalidArgument, field)
	}
	values := make([]float64, 0, len(stats))
	for _, st := range stats {
		if st.RatingCount == 0 {
			continue
		}
		if field == ByCount {
			values = append(values, float64(st.RatingCount))
		} else {
			values = append(values, st.MeanRating)
		}
	}
	return NewHistogram(values, bins)
}
