// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/metrics"
	"github.com/tomtom215/ratingcorr/internal/models"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims on admin requests.
const ClaimsContextKey contextKey = "claims"

// Middleware guards the admin routes.
type Middleware struct {
	// jwtManager is nil when no secret is configured; RequireAdmin then passes through.
	jwtManager *JWTManager

	// limiter is shared by every client: reloads are expensive regardless of caller.
	limiter *rate.Limiter

	logger zerolog.Logger
}

// NewMiddleware builds the admin middleware. adminPerMinute of 0 disables throttling.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiddleware(jwtManager *JWTManager, adminPerMinute int, logger zerolog.Logger) *Middleware {
	m := &Middleware{
		jwtManager: jwtManager,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
	if adminPerMinute > 0 {
		m.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(adminPerMinute)), adminPerMinute)
	}
	return m
}

// Enabled reports whether admin routes require a token.
func (m *Middleware) Enabled() bool {
	return m.jwtManager != nil
}

// RequireAdmin rejects requests without a valid admin bearer token.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.jwtManager == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.RecordAuthFailure("missing_token")
			w.Header().Set("WWW-Authenticate", `Bearer realm="ratingcorr"`)
			writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "bearer token required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			m.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Rejected admin token")
			w.Header().Set("WWW-Authenticate", `Bearer realm="ratingcorr", error="invalid_token"`)
			writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "invalid or expired token")
			return
		}

		if claims.Role != RoleAdmin {
			metrics.RecordAuthFailure("forbidden_role")
			writeError(w, r, http.StatusForbidden, models.CodeForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Throttle rejects admin requests once the shared token bucket is empty.
func (m *Middleware) Throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow() {
			metrics.RecordAuthFailure("throttled")
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, models.CodeRateLimited, "admin operations are rate limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the claims stored by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have gone away
	json.NewEncoder(w).Encode(models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: code, Message: message},
	})
}
