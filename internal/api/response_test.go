// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/models"
	"github.com/tomtom215/ratingcorr/internal/recommend"
	"github.com/tomtom215/ratingcorr/internal/validation"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestRespondSuccess(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	r = r.WithContext(logging.ContextWithRequestID(r.Context(), "req-123"))
	rec := httptest.NewRecorder()

	respondSuccess(rec, r, map[string]int{"items": 3}, models.Metadata{QueryTimeMS: 7})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != models.StatusSuccess {
		t.Errorf("Status = %q, want %q", resp.Status, models.StatusSuccess)
	}
	if resp.Error != nil {
		t.Errorf("Error = %+v, want nil", resp.Error)
	}
	if resp.Metadata.RequestID != "req-123" {
		t.Errorf("RequestID = %q, want req-123", resp.Metadata.RequestID)
	}
	if resp.Metadata.QueryTimeMS != 7 {
		t.Errorf("QueryTimeMS = %d, want 7", resp.Metadata.QueryTimeMS)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	type titled struct {
		Title string `validate:"required"`
	}
	verr := validation.ValidateStruct(&titled{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("%w: title %q", recommend.ErrNotFound, "Nope"),
			wantStatus:  http.StatusNotFound,
			wantCode:    models.CodeNotFound,
			wantMessage: `not found: title "Nope"`,
		},
		{
			name:        "request validation",
			err:         verr,
			wantStatus:  http.StatusBadRequest,
			wantCode:    models.CodeValidation,
			wantMessage: verr.Error(),
			wantDetails: true,
		},
		{
			name:        "internal is redacted",
			err:         errors.New("duckdb: disk I/O error at /secret/path"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    models.CodeInternal,
			wantMessage: "internal error",
		},
		{
			name:        "timeout",
			err:         context.DeadlineExceeded,
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    models.CodeTimeout,
			wantMessage: context.DeadlineExceeded.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			respondError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/similar", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Status != models.StatusError {
				t.Errorf("Status = %q, want %q", resp.Status, models.StatusError)
			}
			if resp.Error == nil {
				t.Fatal("Error = nil")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Error.Message, tt.wantMessage)
			}
			if got := resp.Error.Details != nil; got != tt.wantDetails {
				t.Errorf("Details present = %v, want %v", got, tt.wantDetails)
			}
		})
	}
}
