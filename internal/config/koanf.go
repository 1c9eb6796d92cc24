// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ratingcorr/config.yaml",
	"/etc/ratingcorr/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, tuned for the MovieLens 100k files.
func defaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			RatingsPath:        "data/u.data",
			RatingsDelimiter:   "\t",
			TitlesPath:         "data/Movie_Id_Titles",
			MinRating:          1,
			MaxRating:          5,
			ReloadInterval:     0,
			LoadTimeout:        5 * time.Minute,
			DuckDBMaxMemory:    "1GB",
			DuckDBThreads:      0,
			BreakerMaxFailures: 3,
			BreakerTimeout:     time.Minute,
		},
		Recommend: RecommendConfig{
			MinSupport:      100,
			TopN:            10,
			MaxTopN:         1000,
			MinOverlap:      2,
			Workers:         0,
			QueryTimeout:    10 * time.Second,
			ReferenceTitles: []string{"Star Wars (1977)", "Liar Liar (1997)"},
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTL:              30 * time.Minute,
			MaxEntries:       1000,
			PersistentPath:   "",
			InvalidateOnLoad: false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			TokenTTL:           24 * time.Hour,
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			AdminRatePerMinute: 6,
			CORSOrigins:        []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"recommend.reference_titles",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		// Titles contain commas ("Empire Strikes Back, The (1980)"), so a pipe
		// separator is accepted as well and wins when present.
		sep := ","
		if strings.Contains(strVal, "|") {
			sep = "|"
		}

		parts := strings.Split(strVal, sep)
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"ratings_path":         "dataset.ratings_path",
	"ratings_delimiter":    "dataset.ratings_delimiter",
	"titles_path":          "dataset.titles_path",
	"min_rating":           "dataset.min_rating",
	"max_rating":           "dataset.max_rating",
	"reload_interval":      "dataset.reload_interval",
	"load_timeout":         "dataset.load_timeout",
	"duckdb_max_memory":    "dataset.duckdb_max_memory",
	"duckdb_threads":       "dataset.duckdb_threads",
	"breaker_max_failures": "dataset.breaker_max_failures",
	"breaker_timeout":      "dataset.breaker_timeout",

	"min_support":         "recommend.min_support",
	"top_n":               "recommend.top_n",
	"max_top_n":           "recommend.max_top_n",
	"min_overlap":         "recommend.min_overlap",
	"correlation_workers": "recommend.workers",
	"query_timeout":       "recommend.query_timeout",
	"reference_titles":    "recommend.reference_titles",

	"cache_enabled":            "cache.enabled",
	"cache_ttl":                "cache.ttl",
	"cache_max_entries":        "cache.max_entries",
	"cache_path":               "cache.persistent_path",
	"cache_invalidate_on_load": "cache.invalidate_on_load",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"jwt_secret":            "security.jwt_secret",
	"token_ttl":             "security.token_ttl",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"admin_rate_per_minute": "security.admin_rate_per_minute",
	"cors_origins":          "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables to koanf keys.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
