// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func TestRecommend_InvalidArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		minSupport int
		topN       int
	}{
		{name: "negative min support", minSupport: -1, topN: 5},
		{name: "zero top n", minSupport: 0, topN: 0},
		{name: "negative top n", minSupport: 10, topN: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Recommend(nil, nil, tt.minSupport, tt.topN)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Recommend() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestRecommend_FilterAndOrder(t *testing.T) {
	t.Parallel()

	results := map[string]SimilarityResult{
		"Ref":       {Correlation: Defined(1.0), Support: 300},
		"Close":     {Correlation: Defined(0.75), Support: 120},
		"TieLow":    {Correlation: Defined(0.5), Support: 40},
		"TieHigh":   {Correlation: Defined(0.5), Support: 90},
		"TieTitleB": {Correlation: Defined(0.5), Support: 20},
		"TieTitleA": {Correlation: Defined(0.5), Support: 20},
		"Negative":  {Correlation: Defined(-0.9), Support: 200},
		"Rare":      {Correlation: Defined(0.99), Support: 3},
		"Undefined": {Correlation: Undefined(ReasonZeroVariance), Support: 150},
		"NoOverlap": {Correlation: Undefined(ReasonInsufficientOverlap), Support: 1},
		"Unstatted": {Correlation: Defined(0.8), Support: 2},
	}
	stats := map[string]ItemStats{
		"Ref":       {MeanRating: 4.3, RatingCount: 583},
		"Close":     {MeanRating: 4.2, RatingCount: 367},
		"TieLow":    {MeanRating: 3.1, RatingCount: 110},
		"TieHigh":   {MeanRating: 3.9, RatingCount: 400},
		"TieTitleB": {MeanRating: 3.0, RatingCount: 200},
		"TieTitleA": {MeanRating: 3.0, RatingCount: 200},
		"Negative":  {MeanRating: 2.0, RatingCount: 250},
		"Rare":      {MeanRating: 5.0, RatingCount: 4},
		"Undefined": {MeanRating: 3.3, RatingCount: 500},
		"NoOverlap": {MeanRating: 3.3, RatingCount: 500},
	}

	got, err := Recommend(results, stats, 100, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"Ref", "Close", "TieHigh", "TieTitleA", "TieTitleB", "TieLow", "Negative"}
	if len(got) != len(want) {
		t.Fatalf("Recommend() returned %d rows %v, want %d", len(got), titlesOf(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("row %d = %s, want %s (all: %v)", i, got[i].Title, title, titlesOf(got))
		}
	}

	row := got[1]
	if row.RatingCount != 367 || row.Support != 120 || row.MeanRating != 4.2 || row.Correlation != 0.75 {
		t.Errorf("Close row = %+v", row)
	}
}

func TestRecommend_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	results := make(map[string]SimilarityResult)
	stats := make(map[string]ItemStats)
	for i := 0; i < 200; i++ {
		title := fmt.Sprintf("item-%03d", i)
		count := rng.Intn(300)
		stats[title] = ItemStats{MeanRating: 1 + 4*rng.Float64(), RatingCount: count}

		switch rng.Intn(4) {
		case 0:
			results[title] = SimilarityResult{Correlation: Undefined(ReasonInsufficientOverlap), Support: rng.Intn(2)}
		default:
			// Coarse values force ties.
			r := float64(rng.Intn(21)-10) / 10
			results[title] = SimilarityResult{Correlation: Defined(r), Support: 2 + rng.Intn(count+1)}
		}
	}

	for _, minSupport := range []int{0, 50, 150, 299, 1000} {
		eligible := 0
		for title, res := range results {
			if res.Correlation.IsDefined() && stats[title].RatingCount >= minSupport {
				eligible++
			}
		}

		for _, topN := range []int{1, 5, 20, 500} {
			got, err := Recommend(results, stats, minSupport, topN)
			if err != nil {
				t.Fatalf("Recommend(%d, %d) error = %v", minSupport, topN, err)
			}

			wantLen := topN
			if eligible < wantLen {
				wantLen = eligible
			}
			if len(got) != wantLen {
				t.Errorf("Recommend(%d, %d) len = %d, want %d", minSupport, topN, len(got), wantLen)
			}

			for i, rec := range got {
				if rec.RatingCount < minSupport {
					t.Errorf("row %s has rating_count %d < min support %d", rec.Title, rec.RatingCount, minSupport)
				}
				if i == 0 {
					continue
				}
				prev := got[i-1]
				if prev.Correlation < rec.Correlation {
					t.Errorf("rows %d,%d not sorted by correlation: %v < %v", i-1, i, prev.Correlation, rec.Correlation)
				}
				if prev.Correlation == rec.Correlation && prev.RatingCount < rec.RatingCount {
					t.Errorf("rows %d,%d tie not sorted by count: %d < %d", i-1, i, prev.RatingCount, rec.RatingCount)
				}
			}
		}
	}
}

func TestRecommend_Empty(t *testing.T) {
	t.Parallel()

	results := map[string]SimilarityResult{
		"A": {Correlation: Undefined(ReasonZeroVariance), Support: 5},
		"B": {Correlation: Defined(0.4), Support: 5},
	}
	stats := map[string]ItemStats{"A": {RatingCount: 500}, "B": {RatingCount: 10}}

	got, err := Recommend(results, stats, 100, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recommend() = %#v, want empty non-nil slice", got)
	}
}

func TestRecommend_MinSupportInclusive(t *testing.T) {
	t.Parallel()

	results := map[string]SimilarityResult{"A": {Correlation: Defined(0.5), Support: 2}}
	stats := map[string]ItemStats{"A": {RatingCount: 100}}

	got, err := Recommend(results, stats, 100, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 (rating_count == min support is kept)", len(got))
	}
}

func titlesOf(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}
