// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Package models defines the HTTP request and response shapes shared by the API
// handlers and their clients.
package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidArgs    = "INVALID_ARGUMENT"
	CodeNotFound       = "NOT_FOUND"
	CodeNotLoaded      = "DATASET_NOT_LOADED"
	CodeLoadInProgress = "LOAD_IN_PROGRESS"
	CodeUnauthorized   = "AUTHENTICATION_ERROR"
	CodeForbidden      = "FORBIDDEN"
	CodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	CodeTimeout        = "TIMEOUT"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// APIResponse is the envelope for every JSON endpoint.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
//	{"status":"error","error":{"code":"NOT_FOUND","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable code plus a message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
