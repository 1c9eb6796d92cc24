// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Package dataset reads MovieLens-style rating files into the recommend engine.
//
// Parsing is delegated to an in-memory DuckDB instance: read_csv handles the
// tab-separated ratings file and the quoted CSV titles file, and rows are
// scanned straight into recommend.Observation values. Loader implements
// recommend.DataProvider; wrap it in a Breaker for scheduled reloads.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	// DuckDB driver, used for its CSV reader only
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// ErrFileNotFound is returned when a configured input file does not exist.
var ErrFileNotFound = errors.New("dataset file not found")

// Config describes the input files.
type Config struct {
	// RatingsPath is a headerless file of user_id, item_id, rating, timestamp.
	RatingsPath string

	// RatingsDelimiter is a single character. Defaults to tab.
	RatingsDelimiter string

	// TitlesPath is a CSV file with an item_id,title header.
	TitlesPath string

	// MaxMemory caps DuckDB memory, e.g. "1GB". Empty leaves the DuckDB default.
	MaxMemory string

	// Threads caps DuckDB threads. 0 leaves the DuckDB default.
	Threads int
}

// Loader reads the configured files.
type Loader struct {
	cfg    Config
	logger zerolog.Logger
}

// NewLoader checks the configuration. Files are opened on each load, so they
// may be replaced between reloads.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(cfg Config, logger zerolog.Logger) (*Loader, error) {
	if cfg.RatingsPath == "" {
		return nil, fmt.Errorf("ratings path is required")
	}
	if cfg.TitlesPath == "" {
		return nil, fmt.Errorf("titles path is required")
	}
	if cfg.RatingsDelimiter == "" {
		cfg.RatingsDelimiter = "\t"
	}
	if len(cfg.RatingsDelimiter) != 1 {
		return nil, fmt.Errorf("ratings delimiter must be a single character, got %q", cfg.RatingsDelimiter)
	}

	return &Loader{
		cfg:    cfg,
		logger: logger.With().Str("component", "dataset").Logger(),
	}, nil
}

// open creates a private in-memory DuckDB with extension autoloading disabled.
func (l *Loader) open() (*sql.DB, error) {
	params := []string{"autoinstall_known_extensions=false", "autoload_known_extensions=false"}
	if l.cfg.MaxMemory != "" {
		params = append(params, "max_memory="+l.cfg.MaxMemory)
	}
	if l.cfg.Threads > 0 {
		params = append(params, fmt.Sprintf("threads=%d", l.cfg.Threads))
	}

	db, err := sql.Open("duckdb", ":memory:?"+strings.Join(params, "&"))
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// One connection keeps the in-memory database alive for the whole load.
	db.SetMaxOpenConns(1)
	return db, nil
}

// LoadTitles reads the item_id to title mapping.
func (l *Loader) LoadTitles(ctx context.Context) (map[int]string, error) {
	if err := checkFile(l.cfg.TitlesPath); err != nil {
		return nil, err
	}

	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck // in-memory database, nothing to flush

	query := fmt.Sprintf(`SELECT item_id, title FROM read_csv(%s,
		header = true,
		quote = '"',
		columns = {'item_id': 'BIGINT', 'title': 'VARCHAR'})`,
		sqlString(l.cfg.TitlesPath))

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read titles %s: %w", l.cfg.TitlesPath, err)
	}
	defer rows.Close() //nolint:errcheck // error surfaced by rows.Err

	titles := make(map[int]string)
	line := 0
	for rows.Next() {
		line++
		var id sql.NullInt64
		var title sql.NullString
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan titles row %d: %w", line, err)
		}
		if !id.Valid || !title.Valid {
			return nil, &recommend.ValidationError{Index: line - 1, Field: "title", Message: "missing item_id or title"}
		}
		if prev, dup := titles[int(id.Int64)]; dup {
			return nil, &recommend.ValidationError{
				Index:   line - 1,
				Field:   "item_id",
				Message: fmt.Sprintf("item %d listed twice (%q, %q)", id.Int64, prev, title.String),
			}
		}
		titles[int(id.Int64)] = title.String
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read titles %s: %w", l.cfg.TitlesPath, err)
	}

	l.logger.Debug().
		Str("path", l.cfg.TitlesPath).
		Int("titles", len(titles)).
		Dur("duration", time.Since(start)).
		Msg("titles read")

	return titles, nil
}

// LoadObservations reads every rating in file order.
func (l *Loader) LoadObservations(ctx context.Context) ([]recommend.Observation, error) {
	if err := checkFile(l.cfg.RatingsPath); err != nil {
		return nil, err
	}

	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck // in-memory database, nothing to flush

	query := fmt.Sprintf(`SELECT user_id, item_id, rating, ts FROM read_csv(%s,
		delim = %s,
		header = false,
		columns = {'user_id': 'BIGINT', 'item_id': 'BIGINT', 'rating': 'DOUBLE', 'ts': 'BIGINT'})`,
		sqlString(l.cfg.RatingsPath), sqlString(l.cfg.RatingsDelimiter))

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read ratings %s: %w", l.cfg.RatingsPath, err)
	}
	defer rows.Close() //nolint:errcheck // error surfaced by rows.Err

	observations := make([]recommend.Observation, 0, 1<<16)
	for rows.Next() {
		var user, item sql.NullInt64
		var rating sql.NullFloat64
		var ts sql.NullInt64
		if err := rows.Scan(&user, &item, &rating, &ts); err != nil {
			return nil, fmt.Errorf("scan ratings row %d: %w", len(observations)+1, err)
		}
		if !user.Valid || !item.Valid || !rating.Valid {
			return nil, &recommend.ValidationError{
				Index:   len(observations),
				Field:   "row",
				Message: "missing user_id, item_id or rating",
			}
		}
		observations = append(observations, recommend.Observation{
			UserID:    int(user.Int64),
			ItemID:    int(item.Int64),
			Rating:    rating.Float64,
			Timestamp: ts.Int64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ratings %s: %w", l.cfg.RatingsPath, err)
	}

	l.logger.Debug().
		Str("path", l.cfg.RatingsPath).
		Int("observations", len(observations)).
		Dur("duration", time.Since(start)).
		Msg("ratings read")

	return observations, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// sqlString quotes s as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
