// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestCorrelation_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Correlation
		want string
	}{
		{name: "defined", c: Defined(0.93), want: `{"defined":true,"value":0.93}`},
		{name: "defined zero keeps value", c: Defined(0), want: `{"defined":true,"value":0}`},
		{name: "zero variance", c: Undefined(ReasonZeroVariance), want: `{"defined":false,"reason":"zero_variance"}`},
		{name: "insufficient overlap", c: Undefined(ReasonInsufficientOverlap), want: `{"defined":false,"reason":"insufficient_overlap"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.c)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back Correlation
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back != tt.c {
				t.Errorf("round trip = %+v, want %+v", back, tt.c)
			}
		})
	}
}

func TestCorrelation_UnmarshalInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`{"defined":true}`,
		`{"defined":false,"reason":"bogus"}`,
		`[1,2]`,
	} {
		var c Correlation
		if err := json.Unmarshal([]byte(input), &c); err == nil {
			t.Errorf("Unmarshal(%s) error = nil, want error", input)
		}
	}
}

func TestCorrelation_Accessors(t *testing.T) {
	t.Parallel()

	d := Defined(-0.25)
	if v, ok := d.Value(); !ok || v != -0.25 {
		t.Errorf("Defined(-0.25).Value() = %v, %v", v, ok)
	}
	if d.Reason() != ReasonNone {
		t.Errorf("Defined().Reason() = %v, want none", d.Reason())
	}
	if d.String() != "-0.250000" {
		t.Errorf("Defined().String() = %q", d.String())
	}

	u := Undefined(ReasonZeroVariance)
	if _, ok := u.Value(); ok {
		t.Error("Undefined().Value() reported defined")
	}
	if !strings.Contains(u.String(), "zero_variance") {
		t.Errorf("Undefined().String() = %q", u.String())
	}
}

func TestRatingRange_Contains(t *testing.T) {
	t.Parallel()

	rr := RatingRange{Min: 1, Max: 5}
	tests := []struct {
		r    float64
		want bool
	}{
		{1, true},
		{5, true},
		{3.5, true},
		{0.999, false},
		{6, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := rr.Contains(tt.r); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestSimilarityResult_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(map[string]SimilarityResult{
		"B": {Correlation: Undefined(ReasonInsufficientOverlap), Support: 1},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"B":{"correlation":{"defined":false,"reason":"insufficient_overlap"},"support":1}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
