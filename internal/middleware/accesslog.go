// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/logging"
)

// AccessLog writes one line per request and stores a request-scoped logger in
// the context for handlers to pick up with logging.Ctx.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With().
				Str("request_id", GetRequestID(r.Context())).
				Str("correlation_id", logging.CorrelationIDFromContext(r.Context())).
				Logger()

			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(logging.ContextWithLogger(r.Context(), reqLogger)))

			level := zerolog.InfoLevel
			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case wrapper.statusCode >= http.StatusBadRequest:
				level = zerolog.WarnLevel
			}
			reqLogger.WithLevel(level).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Int("bytes", wrapper.bytes).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
