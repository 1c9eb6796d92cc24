// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ratingcorr/internal/metrics"
	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("dataset unavailable")

// BreakerName labels the dataset breaker in metrics and logs.
const BreakerName = "dataset-loader"

// Breaker wraps a recommend.DataProvider with a circuit breaker so a broken
// dataset location is not re-read on every scheduled reload.
//
// The breaker opens after maxFailures consecutive failures and stays open for
// timeout, after which a single trial load is let through. Context
// cancellation is not counted as a failure.
type Breaker struct {
	provider recommend.DataProvider
	cb       *gobreaker.CircuitBreaker[interface{}]
	logger   zerolog.Logger
}

// NewBreaker wraps provider. maxFailures of 0 falls back to 3.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreaker(provider recommend.DataProvider, maxFailures uint32, timeout time.Duration, logger zerolog.Logger) *Breaker {
	if maxFailures == 0 {
		maxFailures = 3
	}
	b := &Breaker{
		provider: provider,
		logger:   logger.With().Str("component", "dataset-breaker").Logger(),
	}

	metrics.RecordBreakerTransition(BreakerName, "init", stateToString(gobreaker.StateClosed), stateToFloat(gobreaker.StateClosed))

	b.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				b.logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("Opening dataset breaker")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("Dataset breaker state transition")
			metrics.RecordBreakerTransition(name, stateToString(from), stateToString(to), stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return b
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

// LoadTitles reads titles through the breaker.
func (b *Breaker) LoadTitles(ctx context.Context) (map[int]string, error) {
	return castResult[map[int]string](b.execute(func() (interface{}, error) {
		return b.provider.LoadTitles(ctx)
	}))
}

// LoadObservations reads observations through the breaker.
func (b *Breaker) LoadObservations(ctx context.Context) ([]recommend.Observation, error) {
	return castResult[[]recommend.Observation](b.execute(func() (interface{}, error) {
		return b.provider.LoadObservations(ctx)
	}))
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(BreakerName, "rejected")
			b.logger.Warn().Err(err).Msg("Dataset read rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.RecordBreakerRequest(BreakerName, "failure")
		return nil, err
	}
	metrics.RecordBreakerRequest(BreakerName, "success")
	return result, nil
}

func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("dataset breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
