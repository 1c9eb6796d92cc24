// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/ratingcorr/internal/dataset"
	"github.com/tomtom215/ratingcorr/internal/models"
	"github.com/tomtom215/ratingcorr/internal/recommend"
	"github.com/tomtom215/ratingcorr/internal/validation"
)

// ErrBodyTooLarge is returned when a request body exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// statusForError maps an engine, dataset or validation error to an HTTP status
// and an API error code.
func statusForError(err error) (int, string) {
	var reqErr *validation.RequestValidationError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, models.CodeValidation
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, models.CodeInvalidArgs
	case errors.Is(err, recommend.ErrValidation):
		return http.StatusUnprocessableEntity, models.CodeValidation
	case errors.Is(err, recommend.ErrInvalidArgument):
		return http.StatusBadRequest, models.CodeInvalidArgs
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, models.CodeNotFound
	case errors.Is(err, recommend.ErrNotLoaded):
		return http.StatusServiceUnavailable, models.CodeNotLoaded
	case errors.Is(err, recommend.ErrLoadInProgress):
		return http.StatusConflict, models.CodeLoadInProgress
	case errors.Is(err, dataset.ErrUnavailable):
		return http.StatusServiceUnavailable, models.CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.CodeTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, models.CodeTimeout
	default:
		return http.StatusInternalServerError, models.CodeInternal
	}
}
