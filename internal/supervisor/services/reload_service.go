// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// Loader is the part of recommend.Engine the scheduler drives.
type Loader interface {
	Load(ctx context.Context) error
}

// ReloadService re-reads the dataset every interval. A failed reload keeps
// the previous dataset installed, so failures are logged and never returned.
// A successful reload replaces the store, so observations posted through the
// ingest endpoint since the last load are dropped unless they are also in the
// source files.
type ReloadService struct {
	loader   Loader
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewReloadService creates the scheduler. interval must be positive;
// callers skip registering the service when reloads are disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(loader Loader, interval time.Duration, logger zerolog.Logger) *ReloadService {
	return &ReloadService{
		loader:   loader,
		interval: interval,
		logger:   logger.With().Str("service", "dataset-reload").Logger(),
		name:     "dataset-reload",
	}
}

// Serve ticks until ctx is canceled.
func (s *ReloadService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Warn().Msg("reload interval not positive, scheduler idle")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("dataset reload scheduler running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("dataset reload scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *ReloadService) reload(ctx context.Context) {
	start := time.Now()
	err := s.loader.Load(ctx)
	switch {
	case err == nil:
		s.logger.Info().Dur("duration", time.Since(start)).Msg("scheduled reload complete")
	case errors.Is(err, recommend.ErrLoadInProgress):
		s.logger.Debug().Msg("scheduled reload skipped, load already running")
	case errors.Is(err, context.Canceled):
		s.logger.Debug().Msg("scheduled reload canceled")
	default:
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("scheduled reload failed, keeping previous dataset")
	}
}

// String names the service in supervisor events.
func (s *ReloadService) String() string {
	return s.name
}
