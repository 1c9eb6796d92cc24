// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Package config loads ratingcorr configuration with koanf v2.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, then config.yaml / config.yml, then /etc/ratingcorr/
//  3. Environment variables with explicit mappings (RATINGS_PATH, MIN_SUPPORT, HTTP_PORT, ...)
//
// The result is validated with go-playground/validator tags plus cross-field checks.
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatasetConfig describes the ratings and titles files and how they are read.
type DatasetConfig struct {
	// RatingsPath is the user/item/rating/timestamp file, headerless.
	RatingsPath string `koanf:"ratings_path" validate:"required"`

	// RatingsDelimiter separates the ratings columns. Tab for MovieLens u.data.
	RatingsDelimiter string `koanf:"ratings_delimiter" validate:"required"`

	// TitlesPath is the item_id,title file with a header row.
	TitlesPath string `koanf:"titles_path" validate:"required"`

	MinRating float64 `koanf:"min_rating"`
	MaxRating float64 `koanf:"max_rating"`

	// ReloadInterval re-reads both files periodically. Zero disables scheduled reloads.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`
	LoadTimeout    time.Duration `koanf:"load_timeout" validate:"gt=0"`

	// DuckDBMaxMemory caps the in-memory DuckDB used to parse the files.
	DuckDBMaxMemory string `koanf:"duckdb_max_memory"`
	DuckDBThreads   int    `koanf:"duckdb_threads" validate:"gte=0"`

	// Breaker settings for scheduled reloads.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// RecommendConfig holds query defaults and correlation settings.
type RecommendConfig struct {
	// MinSupport is the default minimum rating count for candidates.
	MinSupport int `koanf:"min_support" validate:"gte=0"`

	TopN    int `koanf:"top_n" validate:"min=1"`
	MaxTopN int `koanf:"max_top_n" validate:"min=1"`

	// MinOverlap is the minimum number of shared users for a defined correlation. Floor 2.
	MinOverlap int `koanf:"min_overlap" validate:"min=2"`

	// Workers is the correlation fan-out. 0 means GOMAXPROCS.
	Workers int `koanf:"workers" validate:"gte=0"`

	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`

	// ReferenceTitles are the items the report command prints recommendations for.
	ReferenceTitles []string `koanf:"reference_titles"`
}

// CacheConfig controls the similarity cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl" validate:"gt=0"`
	MaxEntries int           `koanf:"max_entries" validate:"min=1"`

	// PersistentPath enables a BadgerDB tier behind the LRU when set.
	PersistentPath string `koanf:"persistent_path"`

	// InvalidateOnLoad clears both tiers after each load. Entries are keyed by
	// dataset content, so leaving it off lets the persistent tier survive restarts.
	InvalidateOnLoad bool `koanf:"invalidate_on_load"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// SecurityConfig holds rate limiting, CORS and admin endpoint protection.
type SecurityConfig struct {
	// JWTSecret enables bearer-token protection of the admin endpoints when set.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the lifetime of tokens minted by the token command.
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gt=0"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AdminRatePerMinute throttles reload and ingest across all clients.
	AdminRatePerMinute int `koanf:"admin_rate_per_minute" validate:"min=1"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// EngineConfig maps the loaded settings onto recommend.Config.
func (c *Config) EngineConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Ratings = recommend.RatingRange{Min: c.Dataset.MinRating, Max: c.Dataset.MaxRating}
	rc.Correlation.MinOverlap = c.Recommend.MinOverlap
	if c.Recommend.Workers > 0 {
		rc.Correlation.Workers = c.Recommend.Workers
	}
	rc.Limits.DefaultMinSupport = c.Recommend.MinSupport
	rc.Limits.DefaultTopN = c.Recommend.TopN
	rc.Limits.MaxTopN = c.Recommend.MaxTopN
	rc.Limits.QueryTimeout = c.Recommend.QueryTimeout
	rc.Limits.LoadTimeout = c.Dataset.LoadTimeout
	rc.Cache.Enabled = c.Cache.Enabled
	rc.Cache.TTL = c.Cache.TTL
	rc.Cache.MaxEntries = c.Cache.MaxEntries
	rc.Cache.InvalidateOnLoad = c.Cache.InvalidateOnLoad
	return rc
}

// LoggingSettings maps the logging section onto logging.Config.
func (c *Config) LoggingSettings() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}
