// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/api"
	"github.com/tomtom215/ratingcorr/internal/auth"
	"github.com/tomtom215/ratingcorr/internal/cache"
	"github.com/tomtom215/ratingcorr/internal/config"
	"github.com/tomtom215/ratingcorr/internal/dataset"
	"github.com/tomtom215/ratingcorr/internal/middleware"
	"github.com/tomtom215/ratingcorr/internal/recommend"
)

const (
	performanceSamples = 1000
	slowRequest        = 2 * time.Second
	cachePrefix        = "similar:"
)

// app holds the wired components and whatever needs closing on exit.
type app struct {
	engine  *recommend.Engine
	breaker *dataset.Breaker
	router  http.Handler
	closers []func() error
	logger  zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	engineCfg := cfg.EngineConfig()
	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = engine

	if err := a.setupCache(cfg, engineCfg.Cache); err != nil {
		a.Close()
		return nil, err
	}

	loader, err := dataset.NewLoader(dataset.Config{
		RatingsPath:      cfg.Dataset.RatingsPath,
		RatingsDelimiter: cfg.Dataset.RatingsDelimiter,
		TitlesPath:       cfg.Dataset.TitlesPath,
		MaxMemory:        cfg.Dataset.DuckDBMaxMemory,
		Threads:          cfg.Dataset.DuckDBThreads,
	}, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create dataset loader: %w", err)
	}
	a.breaker = dataset.NewBreaker(loader, cfg.Dataset.BreakerMaxFailures, cfg.Dataset.BreakerTimeout, logger)
	engine.SetDataProvider(a.breaker)

	authMW, err := newAuthMiddleware(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	monitor := middleware.NewPerformanceMonitor(performanceSamples, slowRequest, logger)
	handler := api.NewHandler(engine, monitor)
	handler.SetBreakerState(a.breaker.State)

	chiCfg := api.DefaultChiMiddlewareConfig()
	chiCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	chiCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	chiCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	chiCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	a.router = api.NewRouter(api.RouterDeps{
		Handler: handler,
		Auth:    authMW,
		Chi:     api.NewChiMiddleware(chiCfg),
		Monitor: monitor,
		Logger:  logger,
	})

	return a, nil
}

// setupCache adds a BadgerDB tier behind the in-memory LRU when a path is set.
func (a *app) setupCache(cfg *config.Config, cacheCfg recommend.CacheConfig) error {
	if !cacheCfg.Enabled {
		a.logger.Info().Msg("Similarity cache disabled")
		return nil
	}
	if cfg.Cache.PersistentPath == "" {
		return nil
	}

	store, err := cache.OpenBadgerStore(cfg.Cache.PersistentPath, cachePrefix)
	if err != nil {
		return fmt.Errorf("open persistent cache: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	a.engine.SetCache(recommend.NewTieredCache(
		recommend.NewMemoryCache(cacheCfg),
		recommend.NewPersistentCache(store, cacheCfg, a.logger),
	))
	a.logger.Info().Str("path", cfg.Cache.PersistentPath).Msg("Persistent similarity cache enabled")
	return nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newAuthMiddleware(cfg *config.Config, logger zerolog.Logger) (*auth.Middleware, error) {
	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		var err error
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("create jwt manager: %w", err)
		}
		logger.Info().Msg("Admin endpoints require a bearer token")
	} else {
		logger.Warn().Msg("JWT_SECRET not set: admin endpoints are open to any client")
	}
	return auth.NewMiddleware(jwtManager, cfg.Security.AdminRatePerMinute, logger), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error().Err(err).Msg("Error during shutdown")
		}
	}
	a.closers = nil
}
