// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func correlate(t *testing.T, m *RatingMatrix, reference string) map[string]SimilarityResult {
	t.Helper()

	results, err := NewCorrelator(CorrelationConfig{MinOverlap: 2, Workers: 1}).Correlate(context.Background(), m, reference)
	if err != nil {
		t.Fatalf("Correlate(%q) error = %v", reference, err)
	}
	return results
}

// matrixFromColumns builds a matrix from title -> user -> rating.
func matrixFromColumns(t *testing.T, bounds RatingRange, columns map[string]map[int]float64) *RatingMatrix {
	t.Helper()

	titles := make(map[int]string, len(columns))
	ids := make(map[string]int, len(columns))
	next := 1
	for title := range columns {
		titles[next] = title
		ids[title] = next
		next++
	}

	store, err := NewRatingStore(titles, bounds)
	if err != nil {
		t.Fatalf("NewRatingStore() error = %v", err)
	}

	var obs []Observation
	for title, col := range columns {
		for user, rating := range col {
			obs = append(obs, Observation{UserID: user, ItemID: ids[title], Rating: rating})
		}
	}
	if err := store.Ingest(obs); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	return BuildMatrix(store)
}

func TestCorrelator_Example(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		candidate   map[int]float64
		wantDefined bool
		wantValue   float64
		wantReason  UndefinedReason
		wantSupport int
	}{
		{
			name:        "identical ratings",
			candidate:   map[int]float64{1: 5, 2: 4, 3: 3},
			wantDefined: true,
			wantValue:   1.0,
			wantSupport: 3,
		},
		{
			name:        "two overlapping users with variance",
			candidate:   map[int]float64{1: 1, 2: 2},
			wantDefined: true,
			wantValue:   -1.0,
			wantSupport: 2,
		},
		{
			name:        "two overlapping users with zero variance",
			candidate:   map[int]float64{1: 3, 2: 3},
			wantReason:  ReasonZeroVariance,
			wantSupport: 2,
		},
		{
			name:        "one overlapping user",
			candidate:   map[int]float64{1: 4, 9: 2},
			wantReason:  ReasonInsufficientOverlap,
			wantSupport: 1,
		},
		{
			name:        "no overlapping users",
			candidate:   map[int]float64{7: 4, 8: 2},
			wantReason:  ReasonInsufficientOverlap,
			wantSupport: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := matrixFromColumns(t, testBounds, map[string]map[int]float64{
				"A": {1: 5, 2: 4, 3: 3},
				"C": tt.candidate,
			})
			got := correlate(t, m, "A")["C"]

			if got.Support != tt.wantSupport {
				t.Errorf("Support = %d, want %d", got.Support, tt.wantSupport)
			}
			v, defined := got.Correlation.Value()
			if defined != tt.wantDefined {
				t.Fatalf("defined = %v, want %v (%s)", defined, tt.wantDefined, got.Correlation)
			}
			if defined && math.Abs(v-tt.wantValue) > 1e-12 {
				t.Errorf("correlation = %v, want %v", v, tt.wantValue)
			}
			if !defined && got.Correlation.Reason() != tt.wantReason {
				t.Errorf("reason = %v, want %v", got.Correlation.Reason(), tt.wantReason)
			}
		})
	}
}

func TestCorrelator_SelfCorrelation(t *testing.T) {
	t.Parallel()

	m := matrixFromColumns(t, testBounds, map[string]map[int]float64{
		"A":        {1: 5, 2: 4, 3: 3, 4: 1, 5: 2},
		"B":        {1: 1, 3: 4, 6: 2.5},
		"Single":   {1: 3},
		"Constant": {1: 4, 2: 4, 3: 4},
	})

	for _, title := range []string{"A", "B"} {
		res := correlate(t, m, title)[title]
		v, ok := res.Correlation.Value()
		if !ok || v != 1.0 {
			t.Errorf("self correlation of %s = %s, want exactly 1", title, res.Correlation)
		}
		col, _ := m.Column(title)
		if res.Support != len(col) {
			t.Errorf("self support of %s = %d, want %d", title, res.Support, len(col))
		}
	}

	if res := correlate(t, m, "Single")["Single"]; res.Correlation.Reason() != ReasonInsufficientOverlap {
		t.Errorf("self correlation of Single = %s, want insufficient overlap", res.Correlation)
	}
	if res := correlate(t, m, "Constant")["Constant"]; res.Correlation.Reason() != ReasonZeroVariance {
		t.Errorf("self correlation of Constant = %s, want zero variance", res.Correlation)
	}
}

func TestCorrelator_AffineTransform(t *testing.T) {
	t.Parallel()

	wide := RatingRange{Min: -100, Max: 100}
	x := map[int]float64{1: 1, 2: 2, 3: 3, 4: 5, 5: 4, 6: 2}

	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{name: "positive slope", a: 2, b: 1, want: 1},
		{name: "positive fractional slope", a: 0.5, b: -3, want: 1},
		{name: "positive non-dyadic slope", a: 0.3, b: 2.2, want: 1},
		{name: "positive third slope", a: 1.0 / 3, b: -0.7, want: 1},
		{name: "positive steep slope", a: 7.9, b: 0.1, want: 1},
		{name: "negative slope", a: -1, b: 6, want: -1},
		{name: "negative steep slope", a: -3.5, b: 10, want: -1},
		{name: "negative non-dyadic slope", a: -1.7, b: 3.3, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			y := make(map[int]float64, len(x))
			for u, r := range x {
				y[u] = tt.a*r + tt.b
			}
			m := matrixFromColumns(t, wide, map[string]map[int]float64{"X": x, "Y": y})

			res := correlate(t, m, "X")["Y"]
			v, ok := res.Correlation.Value()
			if !ok {
				t.Fatalf("correlation undefined: %s", res.Correlation)
			}
			if v != tt.want {
				t.Errorf("correlation = %v, want exactly %v", v, tt.want)
			}
		})
	}
}

func TestCorrelator_AffineTransform_Random(t *testing.T) {
	t.Parallel()

	wide := RatingRange{Min: -100, Max: 100}
	x := map[int]float64{1: 1, 2: 2, 3: 3, 4: 5, 5: 4, 6: 2, 7: 1, 8: 4, 9: 5, 10: 3, 11: 2, 12: 4}
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		a := 0.1 + rng.Float64()*9.9
		if i%2 == 1 {
			a = -a
		}
		b := rng.Float64()*20 - 10

		y := make(map[int]float64, len(x))
		for u, r := range x {
			y[u] = a*r + b
		}
		m := matrixFromColumns(t, wide, map[string]map[int]float64{"X": x, "Y": y})

		want := 1.0
		if a < 0 {
			want = -1
		}
		v, ok := correlate(t, m, "X")["Y"].Correlation.Value()
		if !ok || v != want {
			t.Fatalf("corr(X, %v*X%+v) = %v (defined=%v), want exactly %v", a, b, v, ok, want)
		}
	}
}

func TestPearson_SnapsNearUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		xs, ys []float64
		want   float64
	}{
		{name: "identical", xs: []float64{1, 2, 4}, ys: []float64{1, 2, 4}, want: 1},
		{name: "reversed", xs: []float64{1, 2, 4}, ys: []float64{4, 3, 1}, want: -1},
		{name: "weak", xs: []float64{1, 2, 3, 4}, ys: []float64{2, 1, 4, 3}, want: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := pearson(tt.xs, tt.ys)
			if !ok {
				t.Fatal("pearson() ok = false")
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("pearson() = %v, want %v", got, tt.want)
			}
			if got > 1 || got < -1 {
				t.Errorf("pearson() = %v outside [-1, 1]", got)
			}
		})
	}
}

func TestCorrelator_Symmetry(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	columns := make(map[string]map[int]float64)
	for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
		col := make(map[int]float64)
		for u := 0; u < 40; u++ {
			if rng.Float64() < 0.6 {
				col[u] = float64(1 + rng.Intn(5))
			}
		}
		columns[title] = col
	}
	m := matrixFromColumns(t, testBounds, columns)

	byRef := make(map[string]map[string]SimilarityResult)
	for _, title := range m.Titles() {
		byRef[title] = correlate(t, m, title)
	}

	for _, a := range m.Titles() {
		for _, b := range m.Titles() {
			ab, ba := byRef[a][b], byRef[b][a]
			if ab.Support != ba.Support {
				t.Errorf("support(%s,%s) = %d, support(%s,%s) = %d", a, b, ab.Support, b, a, ba.Support)
			}
			va, oka := ab.Correlation.Value()
			vb, okb := ba.Correlation.Value()
			if oka != okb || va != vb {
				t.Errorf("corr(%s,%s) = %s, corr(%s,%s) = %s", a, b, ab.Correlation, b, a, ba.Correlation)
			}
		}
	}
}

func TestCorrelator_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	columns := make(map[string]map[int]float64)
	for i := 0; i < 50; i++ {
		col := make(map[int]float64)
		for u := 0; u < 30; u++ {
			if rng.Float64() < 0.4 {
				col[u] = float64(1 + rng.Intn(5))
			}
		}
		if len(col) > 0 {
			columns[string(rune('A'+i%26))+string(rune('a'+i/26))] = col
		}
	}
	m := matrixFromColumns(t, testBounds, columns)
	ref := m.Titles()[0]

	seq, err := NewCorrelator(CorrelationConfig{Workers: 1}).Correlate(context.Background(), m, ref)
	if err != nil {
		t.Fatalf("sequential Correlate() error = %v", err)
	}
	par, err := NewCorrelator(CorrelationConfig{Workers: 8}).Correlate(context.Background(), m, ref)
	if err != nil {
		t.Fatalf("parallel Correlate() error = %v", err)
	}

	if len(seq) != m.Len() || len(par) != m.Len() {
		t.Fatalf("len(seq), len(par) = %d, %d; want %d", len(seq), len(par), m.Len())
	}
	for title, s := range seq {
		if par[title] != s {
			t.Errorf("%s: parallel %+v != sequential %+v", title, par[title], s)
		}
	}
}

func TestCorrelator_NotFound(t *testing.T) {
	t.Parallel()

	m := matrixFromColumns(t, testBounds, map[string]map[int]float64{"A": {1: 3}})

	_, err := NewCorrelator(CorrelationConfig{}).Correlate(context.Background(), m, "Missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Correlate() error = %v, want ErrNotFound", err)
	}
}

func TestCorrelator_Cancelled(t *testing.T) {
	t.Parallel()

	m := matrixFromColumns(t, testBounds, map[string]map[int]float64{
		"A": {1: 3, 2: 4},
		"B": {1: 2, 2: 5},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewCorrelator(CorrelationConfig{Workers: 2}).Correlate(ctx, m, "A")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Correlate() error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("Correlate() results = %v, want nil", results)
	}
}

func TestNewCorrelator_Floor(t *testing.T) {
	t.Parallel()

	c := NewCorrelator(CorrelationConfig{MinOverlap: 0, Workers: 0})
	if c.minOverlap != MinOverlapFloor {
		t.Errorf("minOverlap = %d, want %d", c.minOverlap, MinOverlapFloor)
	}
	if c.workers != 1 {
		t.Errorf("workers = %d, want 1", c.workers)
	}
}

func TestCorrelator_MinOverlap(t *testing.T) {
	t.Parallel()

	m := matrixFromColumns(t, testBounds, map[string]map[int]float64{
		"A": {1: 5, 2: 4, 3: 3, 4: 1},
		"B": {1: 4, 2: 2, 3: 3},
	})

	results, err := NewCorrelator(CorrelationConfig{MinOverlap: 4, Workers: 1}).Correlate(context.Background(), m, "A")
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if got := results["B"]; got.Correlation.Reason() != ReasonInsufficientOverlap || got.Support != 3 {
		t.Errorf("B = %+v, want insufficient overlap with support 3", got)
	}
	if _, ok := results["A"].Correlation.Value(); !ok {
		t.Error("A self correlation undefined with 4 ratings and min overlap 4")
	}
}
