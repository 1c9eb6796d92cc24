// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/ratingcorr/internal/config"
	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/supervisor"
	"github.com/tomtom215/ratingcorr/internal/supervisor/services"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: CONFIG_PATH or ./config.yaml)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingSettings())
	logger := logging.Logger()

	logger.Info().
		Str("ratings_path", cfg.Dataset.RatingsPath).
		Str("titles_path", cfg.Dataset.TitlesPath).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting ratingcorr")

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The server starts even if the first load fails; readiness reports it.
	if err := app.engine.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("Initial dataset load failed")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Dataset.ReloadInterval > 0 {
		tree.AddDataService(services.NewReloadService(app.engine, cfg.Dataset.ReloadInterval, logger))
	} else {
		logger.Info().Msg("Scheduled reloads disabled (RELOAD_INTERVAL=0)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logger.Info().Msg("Shutdown complete")
}
