// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"fmt"
	"runtime"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the similarity engine.
type Config struct {
	// Ratings is the inclusive range accepted at ingestion.
	Ratings RatingRange `json:"ratings"`

	// Correlation contains parameters for the correlation pass.
	Correlation CorrelationConfig `json:"correlation"`

	// Limits contains query defaults and bounds.
	Limits LimitsConfig `json:"limits"`

	// Cache contains similarity cache parameters.
	Cache CacheConfig `json:"cache"`
}

// CorrelationConfig contains parameters for the correlation pass.
type CorrelationConfig struct {
	// MinOverlap is the number of shared users needed for a defined correlation.
	// Default: 2. Values below 2 are rejected.
	MinOverlap int `json:"min_overlap"`

	// Workers is the number of goroutines correlating candidates.
	// Default: GOMAXPROCS. 1 runs sequentially.
	Workers int `json:"workers"`
}

// LimitsConfig contains query defaults and bounds.
type LimitsConfig struct {
	// DefaultMinSupport applies when a query leaves min support unset.
	// Default: 100.
	DefaultMinSupport int `json:"default_min_support"`

	// DefaultTopN applies when a query leaves top n unset.
	// Default: 10.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the number of rows a query may request.
	// Default: 1000.
	MaxTopN int `json:"max_top_n"`

	// QueryTimeout bounds a single similarity query.
	// Default: 10s.
	QueryTimeout time.Duration `json:"query_timeout"`

	// LoadTimeout bounds a full dataset load.
	// Default: 5m.
	LoadTimeout time.Duration `json:"load_timeout"`
}

// CacheConfig contains similarity cache parameters.
type CacheConfig struct {
	// Enabled controls whether correlation results are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 30m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached references.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`

	// InvalidateOnLoad clears the cache after every successful load. Keys are
	// derived from the dataset content, so this only reclaims space.
	// Default: false.
	InvalidateOnLoad bool `json:"invalidate_on_load"`
}

// DefaultConfig returns a Config matching the MovieLens 100k layout.
func DefaultConfig() *Config {
	return &Config{
		Ratings: RatingRange{Min: 1, Max: 5},
		Correlation: CorrelationConfig{
			MinOverlap: MinOverlapFloor,
			Workers:    runtime.GOMAXPROCS(0),
		},
		Limits: LimitsConfig{
			DefaultMinSupport: 100,
			DefaultTopN:       10,
			MaxTopN:           1000,
			QueryTimeout:      10 * time.Second,
			LoadTimeout:       5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTL:              30 * time.Minute,
			MaxEntries:       1000,
			InvalidateOnLoad: false,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Ratings.Validate(); err != nil {
		return fmt.Errorf("ratings: %w", err)
	}

	if c.Correlation.MinOverlap < MinOverlapFloor {
		return fmt.Errorf("correlation.min_overlap must be at least %d, got %d", MinOverlapFloor, c.Correlation.MinOverlap)
	}
	if c.Correlation.Workers < 1 {
		return fmt.Errorf("correlation.workers must be positive, got %d", c.Correlation.Workers)
	}

	if c.Limits.DefaultMinSupport < 0 {
		return fmt.Errorf("limits.default_min_support must be non-negative, got %d", c.Limits.DefaultMinSupport)
	}
	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.QueryTimeout <= 0 {
		return fmt.Errorf("limits.query_timeout must be positive, got %v", c.Limits.QueryTimeout)
	}
	if c.Limits.LoadTimeout <= 0 {
		return fmt.Errorf("limits.load_timeout must be positive, got %v", c.Limits.LoadTimeout)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type limits struct {
		DefaultMinSupport int    `json:"default_min_support"`
		DefaultTopN       int    `json:"default_top_n"`
		MaxTopN           int    `json:"max_top_n"`
		QueryTimeout      string `json:"query_timeout"`
		LoadTimeout       string `json:"load_timeout"`
	}
	type cache struct {
		Enabled          bool   `json:"enabled"`
		TTL              string `json:"ttl"`
		MaxEntries       int    `json:"max_entries"`
		InvalidateOnLoad bool   `json:"invalidate_on_load"`
	}
	return json.Marshal(&struct {
		Ratings     RatingRange       `json:"ratings"`
		Correlation CorrelationConfig `json:"correlation"`
		Limits      limits            `json:"limits"`
		Cache       cache             `json:"cache"`
	}{
		Ratings:     c.Ratings,
		Correlation: c.Correlation,
		Limits: limits{
			DefaultMinSupport: c.Limits.DefaultMinSupport,
			DefaultTopN:       c.Limits.DefaultTopN,
			MaxTopN:           c.Limits.MaxTopN,
			QueryTimeout:      c.Limits.QueryTimeout.String(),
			LoadTimeout:       c.Limits.LoadTimeout.String(),
		},
		Cache: cache{
			Enabled:          c.Cache.Enabled,
			TTL:              c.Cache.TTL.String(),
			MaxEntries:       c.Cache.MaxEntries,
			InvalidateOnLoad: c.Cache.InvalidateOnLoad,
		},
	})
}
