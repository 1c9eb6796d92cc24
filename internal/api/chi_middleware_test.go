// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingcorr/internal/models"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want empty", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want 100", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if cfg.RateLimitDisabled {
		t.Error("RateLimitDisabled = true, want false")
	}
	if m := NewChiMiddleware(nil); m.config == nil {
		t.Error("NewChiMiddleware(nil).config = nil")
	}
}

func TestChiMiddleware_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{"wildcard", []string{"*"}, "https://example.com", "*"},
		{"specific allowed", []string{"https://allowed.com"}, "https://allowed.com", "https://allowed.com"},
		{"specific disallowed", []string{"https://allowed.com"}, "https://evil.com", ""},
		{"no origin header", []string{"*"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultChiMiddlewareConfig()
			cfg.CORSAllowedOrigins = tt.origins
			m := NewChiMiddleware(cfg)

			called := false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/similar", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			m.CORS()(okHandler(&called)).ServeHTTP(rec, req)

			if !called {
				t.Error("handler not called")
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestChiMiddleware_CORS_Preflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://allowed.com"}
	m := NewChiMiddleware(cfg)

	called := false
	req := httptest.NewRequest(http.MethodOptions, "/admin/reload", nil)
	req.Header.Set("Origin", "https://allowed.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	m.CORS()(okHandler(&called)).ServeHTTP(rec, req)

	if called {
		t.Error("preflight reached the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://allowed.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want https://allowed.com", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Access-Control-Max-Age = %q, want 86400", got)
	}
}

func TestChiMiddleware_RateLimit(t *testing.T) {
	t.Parallel()

	t.Run("limits per ip", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitRequests = 2
		m := NewChiMiddleware(cfg)
		h := m.RateLimit()(okHandler(nil))

		send := func(addr string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec
		}

		for i := 0; i < 2; i++ {
			if rec := send("192.0.2.1:1000"); rec.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
			}
		}

		rec := send("192.0.2.1:1000")
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("third request status = %d, want 429", rec.Code)
		}
		var resp models.APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode 429 body: %v", err)
		}
		if resp.Error == nil || resp.Error.Code != models.CodeRateLimited {
			t.Errorf("Error = %+v, want code %s", resp.Error, models.CodeRateLimited)
		}

		if rec := send("192.0.2.2:1000"); rec.Code != http.StatusOK {
			t.Errorf("other ip status = %d, want 200", rec.Code)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitRequests = 1
		cfg.RateLimitDisabled = true
		h := NewChiMiddleware(cfg).RateLimit()(okHandler(nil))

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
			}
		}
	})
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		proto    string
		wantHSTS bool
	}{
		{"plain http", "", false},
		{"forwarded https", "https", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			rec := httptest.NewRecorder()
			APISecurityHeaders()(okHandler(nil)).ServeHTTP(rec, req)

			want := map[string]string{
				"X-Content-Type-Options": "nosniff",
				"X-Frame-Options":        "DENY",
				"Cache-Control":          "no-store",
			}
			for k, v := range want {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}
