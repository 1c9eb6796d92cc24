// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Command report loads the dataset once and prints the exploratory summary:
// the best-rated and most-rated items, the distributions of mean rating and
// rating count, and the recommendations for each configured reference title.
//
//	ratingcorr-report -top 10 -bins 40 -titles "Star Wars (1977),Liar Liar (1997)"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/config"
	"github.com/tomtom215/ratingcorr/internal/dataset"
	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/recommend"
	"github.com/tomtom215/ratingcorr/internal/report"
)

type options struct {
	configPath string
	top        int
	bins       int
	minSupport int
	titles     string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flag.IntVar(&opts.top, "top", 5, "rows in each ranking")
	flag.IntVar(&opts.bins, "bins", 30, "histogram buckets")
	flag.IntVar(&opts.minSupport, "min-support", -1, "minimum rating count for recommendations (-1 uses the configured value)")
	flag.StringVar(&opts.titles, "titles", "", "comma-separated reference titles (default: recommend.reference_titles)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())

	if err := run(context.Background(), cfg, opts, os.Stdout, logging.Logger()); err != nil {
		logging.Fatal().Err(err).Msg("Report failed")
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer, logger zerolog.Logger) error {
	engineCfg := cfg.EngineConfig()
	engineCfg.Cache.Enabled = false

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	loader, err := dataset.NewLoader(dataset.Config{
		RatingsPath:      cfg.Dataset.RatingsPath,
		RatingsDelimiter: cfg.Dataset.RatingsDelimiter,
		TitlesPath:       cfg.Dataset.TitlesPath,
		MaxMemory:        cfg.Dataset.DuckDBMaxMemory,
		Threads:          cfg.Dataset.DuckDBThreads,
	}, logger)
	if err != nil {
		return fmt.Errorf("create dataset loader: %w", err)
	}
	engine.SetDataProvider(loader)

	if err := engine.Load(ctx); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	stats, err := engine.AllStats()
	if err != nil {
		return err
	}

	status := engine.Status()
	fmt.Fprintf(out, "%d ratings from %d users over %d items\n", status.Observations, status.Users, status.Items)

	p := report.NewPrinter(out)
	if err := p.Ranking(fmt.Sprintf("Top %d by mean rating", opts.top), report.TopByMean(stats, opts.top)); err != nil {
		return err
	}
	if err := p.Ranking(fmt.Sprintf("Top %d by rating count", opts.top), report.TopByCount(stats, opts.top)); err != nil {
		return err
	}

	for _, field := range []string{report.ByCount, report.ByMean} {
		h, err := report.Distribution(stats, field, opts.bins)
		if err != nil {
			return err
		}
		if err := p.Histogram("Distribution of "+distributionLabel(field), h); err != nil {
			return err
		}
	}

	minSupport := engineCfg.Limits.DefaultMinSupport
	if opts.minSupport >= 0 {
		minSupport = opts.minSupport
	}

	for _, title := range referenceTitles(opts.titles, cfg.Recommend.ReferenceTitles) {
		resp, err := engine.Similar(ctx, recommend.Query{
			Title:      title,
			MinSupport: minSupport,
			TopN:       engineCfg.Limits.DefaultTopN,
		})
		if errors.Is(err, recommend.ErrNotFound) {
			logger.Warn().Str("title", title).Msg("reference title not in dataset, skipping")
			continue
		}
		if err != nil {
			return fmt.Errorf("similar to %q: %w", title, err)
		}
		if err := p.Recommendations(resp); err != nil {
			return err
		}
	}
	return nil
}

func distributionLabel(field string) string {
	if field == report.ByCount {
		return "rating count per item"
	}
	return "mean rating per item"
}

func referenceTitles(flagValue string, configured []string) []string {
	if strings.TrimSpace(flagValue) == "" {
		return configured
	}
	var titles []string
	for _, t := range strings.Split(flagValue, ",") {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
