// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Observation is a single user-item rating as read from the ratings file.
// Observations are immutable once ingested.
type Observation struct {
	// UserID identifies the rating user.
	UserID int `json:"user_id" validate:"gte=0"`

	// ItemID identifies the rated item. It must resolve to a title.
	ItemID int `json:"item_id" validate:"gte=0"`

	// Rating is the bounded score given by the user.
	Rating float64 `json:"rating"`

	// Timestamp is the unix time of the rating. Carried through, never used for scoring.
	Timestamp int64 `json:"timestamp"`
}

// ItemStats is the aggregate view of an item's ratings.
// It is derived from the store's observations and never stored on its own.
type ItemStats struct {
	// MeanRating is the arithmetic mean over all observations of the item.
	MeanRating float64 `json:"mean_rating"`

	// RatingCount is the number of observations, duplicates included.
	RatingCount int `json:"rating_count"`
}

// RatingRange is the inclusive range a rating must fall in to be ingested.
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether r is a finite value inside the range.
func (rr RatingRange) Contains(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}
	return r >= rr.Min && r <= rr.Max
}

// Validate checks that the range is well formed.
func (rr RatingRange) Validate() error {
	if math.IsNaN(rr.Min) || math.IsNaN(rr.Max) || math.IsInf(rr.Min, 0) || math.IsInf(rr.Max, 0) {
		return fmt.Errorf("rating range must be finite, got [%v, %v]", rr.Min, rr.Max)
	}
	if rr.Min > rr.Max {
		return fmt.Errorf("rating range min %v exceeds max %v", rr.Min, rr.Max)
	}
	return nil
}

// UndefinedReason explains why a correlation could not be computed.
type UndefinedReason int

const (
	// ReasonNone marks a defined correlation.
	ReasonNone UndefinedReason = iota
	// ReasonInsufficientOverlap means fewer users than the minimum overlap rated both items.
	ReasonInsufficientOverlap
	// ReasonZeroVariance means one of the paired vectors is constant over the shared users.
	ReasonZeroVariance
)

// String returns the wire name of the reason.
func (r UndefinedReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInsufficientOverlap:
		return "insufficient_overlap"
	case ReasonZeroVariance:
		return "zero_variance"
	default:
		return "unknown"
	}
}

func parseUndefinedReason(s string) (UndefinedReason, error) {
	switch s {
	case "none", "":
		return ReasonNone, nil
	case "insufficient_overlap":
		return ReasonInsufficientOverlap, nil
	case "zero_variance":
		return ReasonZeroVariance, nil
	default:
		return ReasonNone, fmt.Errorf("unknown undefined reason %q", s)
	}
}

// Correlation is a Pearson coefficient that may be undefined.
// The zero value is undefined with ReasonNone and should not be used directly;
// build values with Defined or Undefined.
type Correlation struct {
	value   float64
	defined bool
	reason  UndefinedReason
}

// Defined wraps a computed coefficient.
func Defined(v float64) Correlation {
	return Correlation{value: v, defined: true}
}

// Undefined builds a correlation that carries no value.
func Undefined(reason UndefinedReason) Correlation {
	return Correlation{reason: reason}
}

// Value returns the coefficient and whether it is defined.
func (c Correlation) Value() (float64, bool) {
	return c.value, c.defined
}

// IsDefined reports whether the coefficient was computed.
func (c Correlation) IsDefined() bool {
	return c.defined
}

// Reason returns why the coefficient is undefined, or ReasonNone.
func (c Correlation) Reason() UndefinedReason {
	if c.defined {
		return ReasonNone
	}
	return c.reason
}

// String formats the coefficient for logs and console output.
func (c Correlation) String() string {
	if !c.defined {
		return "undefined(" + c.reason.String() + ")"
	}
	return fmt.Sprintf("%.6f", c.value)
}

type correlationJSON struct {
	Defined bool     `json:"defined"`
	Value   *float64 `json:"value,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// MarshalJSON encodes the tagged form so undefined never turns into 0 or NaN.
func (c Correlation) MarshalJSON() ([]byte, error) {
	if c.defined {
		v := c.value
		return json.Marshal(correlationJSON{Defined: true, Value: &v})
	}
	return json.Marshal(correlationJSON{Defined: false, Reason: c.reason.String()})
}

// UnmarshalJSON decodes the tagged form written by MarshalJSON.
func (c *Correlation) UnmarshalJSON(data []byte) error {
	var raw correlationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Defined {
		if raw.Value == nil {
			return fmt.Errorf("defined correlation without value")
		}
		*c = Defined(*raw.Value)
		return nil
	}
	reason, err := parseUndefinedReason(raw.Reason)
	if err != nil {
		return err
	}
	*c = Undefined(reason)
	return nil
}

// SimilarityResult is the outcome of correlating one candidate against the reference.
type SimilarityResult struct {
	// Correlation is the Pearson coefficient over shared users, or undefined.
	Correlation Correlation `json:"correlation"`

	// Support is the number of users who rated both the reference and the candidate.
	Support int `json:"support"`
}

// Recommendation is one ranked row of a similarity query.
type Recommendation struct {
	// Title is the candidate item's public identifier.
	Title string `json:"title"`

	// Correlation is the defined coefficient against the reference.
	Correlation float64 `json:"correlation"`

	// RatingCount is the candidate's total rating volume.
	RatingCount int `json:"rating_count"`

	// MeanRating is the candidate's mean rating.
	MeanRating float64 `json:"mean_rating"`

	// Support is the number of users shared with the reference.
	Support int `json:"support"`
}

// Query is a request for items similar to a reference title.
type Query struct {
	// Title is the reference item.
	Title string `json:"title" validate:"required"`

	// MinSupport is the minimum total rating count a candidate needs.
	MinSupport int `json:"min_support" validate:"gte=0"`

	// TopN is the maximum number of rows to return.
	TopN int `json:"top_n" validate:"gte=1"`

	// RequestID traces the query through logs. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the result of a similarity query.
type Response struct {
	// Reference is the title the query was made against.
	Reference string `json:"reference"`

	// Items is the ranked output, possibly empty.
	Items []Recommendation `json:"items"`

	// TotalCandidates is the number of matrix columns correlated.
	TotalCandidates int `json:"total_candidates"`

	// Undefined is the number of candidates whose correlation was undefined.
	Undefined int `json:"undefined"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID     string    `json:"request_id"`
	LatencyMS     int64     `json:"latency_ms"`
	CacheHit      bool      `json:"cache_hit"`
	MatrixVersion uint64    `json:"matrix_version"`
	Timestamp     time.Time `json:"timestamp"`
}

// Status describes the currently loaded dataset.
type Status struct {
	Loaded        bool      `json:"loaded"`
	Loading       bool      `json:"loading"`
	Observations  int       `json:"observations"`
	Ingested      int       `json:"ingested"`
	Items         int       `json:"items"`
	Users         int       `json:"users"`
	StoreVersion  uint64    `json:"store_version"`
	MatrixVersion uint64    `json:"matrix_version"`
	LoadedAt      time.Time `json:"loaded_at"`
	LastLoadMS    int64     `json:"last_load_ms"`
	LastError     string    `json:"last_error,omitempty"`
}
