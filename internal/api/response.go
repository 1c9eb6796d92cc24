// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/logging"
	"github.com/tomtom215/ratingcorr/internal/models"
	"github.com/tomtom215/ratingcorr/internal/validation"
)

// sanitizeLogValue strips control characters from client-supplied values
// before they reach the logs.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// respondJSON stamps the metadata and writes response.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.Timestamp = time.Now().UTC()
	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, meta models.Metadata) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// respondError maps err to a status code and writes an error envelope.
// Server-side failures are logged; client mistakes only at debug level.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)

	level := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	logging.Ctx(r.Context()).WithLevel(level).
		Str("code", code).
		Str("error", sanitizeLogValue(err.Error())).
		Msg("API error")

	apiErr := &models.APIError{Code: code, Message: err.Error()}
	var reqErr *validation.RequestValidationError
	if errors.As(err, &reqErr) {
		apiErr.Details = reqErr.Details()
	}
	if status == http.StatusInternalServerError {
		apiErr.Message = "internal error"
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: models.StatusError,
		Error:  apiErr,
	})
}
