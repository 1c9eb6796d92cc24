// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// MinOverlapFloor is the smallest overlap for which Pearson r is defined.
const MinOverlapFloor = 2

// unitTolerance is how close |r| must be to 1 to be reported as exactly ±1.
// It covers the rounding of the summations for exact affine relationships.
const unitTolerance = 1e-14

// Correlator computes pairwise-complete Pearson correlations between a
// reference column and every column of a RatingMatrix.
type Correlator struct {
	minOverlap int
	workers    int
}

// NewCorrelator creates a Correlator from the correlation settings.
// Values below the floor are raised to it; Workers below 1 means sequential.
func NewCorrelator(cfg CorrelationConfig) *Correlator {
	minOverlap := cfg.MinOverlap
	if minOverlap < MinOverlapFloor {
		minOverlap = MinOverlapFloor
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Correlator{minOverlap: minOverlap, workers: workers}
}

// MinOverlap returns the effective minimum number of shared users.
func (c *Correlator) MinOverlap() int {
	return c.minOverlap
}

// Correlate returns a SimilarityResult for every column of the matrix,
// the reference included.
//
// Only users who rated both items contribute. Fewer than the minimum overlap
// yields Undefined(ReasonInsufficientOverlap); a constant vector on either side
// yields Undefined(ReasonZeroVariance). If ctx is cancelled the partial result
// is dropped and ctx.Err() is returned.
func (c *Correlator) Correlate(ctx context.Context, m *RatingMatrix, reference string) (map[string]SimilarityResult, error) {
	ref, ok := m.Column(reference)
	if !ok {
		return nil, notFoundf("title %q has no ratings", reference)
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	titles := m.titles
	results := make(map[string]SimilarityResult, len(titles))

	var wg sync.WaitGroup
	var mu sync.Mutex
	chunkSize := (len(titles) + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(titles) {
			end = len(titles)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()

			var p pairBuffer
			local := make(map[string]SimilarityResult, len(chunk))
			for _, title := range chunk {
				if ContextCancelled(ctx) {
					return
				}
				local[title] = c.correlatePair(&p, ref, m.columns[title])
			}

			mu.Lock()
			for title, res := range local {
				results[title] = res
			}
			mu.Unlock()
		}(titles[start:end])
	}

	wg.Wait()

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	if len(results) != len(titles) {
		return nil, fmt.Errorf("correlate: %d of %d candidates computed", len(results), len(titles))
	}

	return results, nil
}

// pairBuffer holds the paired ratings of one candidate. Reused per worker.
type pairBuffer struct {
	xs, ys []float64
}

// correlatePair joins two sorted columns on user id and computes r over the overlap.
func (c *Correlator) correlatePair(p *pairBuffer, x, y []Cell) SimilarityResult {
	p.xs = p.xs[:0]
	p.ys = p.ys[:0]

	constX, constY := true, true
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		switch {
		case x[i].UserID < y[j].UserID:
			i++
		case x[i].UserID > y[j].UserID:
			j++
		default:
			if len(p.xs) > 0 {
				constX = constX && x[i].Rating == p.xs[0]
				constY = constY && y[j].Rating == p.ys[0]
			}
			p.xs = append(p.xs, x[i].Rating)
			p.ys = append(p.ys, y[j].Rating)
			i++
			j++
		}
	}

	support := len(p.xs)
	if support < c.minOverlap {
		return SimilarityResult{Correlation: Undefined(ReasonInsufficientOverlap), Support: support}
	}
	// Checked on the raw values: a mean-centred constant vector can leave rounding residue.
	if constX || constY {
		return SimilarityResult{Correlation: Undefined(ReasonZeroVariance), Support: support}
	}

	r, ok := pearson(p.xs, p.ys)
	if !ok {
		return SimilarityResult{Correlation: Undefined(ReasonZeroVariance), Support: support}
	}
	return SimilarityResult{Correlation: Defined(r), Support: support}
}

// pearson computes r with two passes over mean-centred values.
// Swapping xs and ys gives a bit-identical result, r(x, x) is exactly 1, and
// values within unitTolerance of ±1 are snapped to ±1.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))

	var sumX, sumY float64
	for k := range xs {
		sumX += xs[k]
		sumY += ys[k]
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxy, sxx, syy float64
	for k := range xs {
		dx := xs[k] - meanX
		dy := ys[k] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	den := math.Sqrt(sxx * syy)
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0, false
	}

	r := sxy / den
	switch {
	case r > 1-unitTolerance:
		r = 1
	case r < -1+unitTolerance:
		r = -1
	}
	return r, true
}

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
