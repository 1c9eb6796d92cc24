// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors. Callers match with errors.Is.
var (
	// ErrValidation marks malformed or out-of-range input data at ingestion.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an unknown item id or title.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks malformed query parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotLoaded is returned by Engine queries before any dataset is installed.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrLoadInProgress is returned when Load is called while another load runs.
	ErrLoadInProgress = errors.New("load already in progress")
)

// ValidationError describes the first observation or title that failed validation.
type ValidationError struct {
	// Index is the position of the offending observation, or -1 when not applicable.
	Index int

	// Field is the offending field name.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("validation error: observation %d: %s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ErrorType maps an error to a short label for metrics and API error codes.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotLoaded):
		return "not_loaded"
	case errors.Is(err, ErrLoadInProgress):
		return "load_in_progress"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
