// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingcorr/internal/models"
	"github.com/tomtom215/ratingcorr/internal/recommend"
	"github.com/tomtom215/ratingcorr/internal/report"
	"github.com/tomtom215/ratingcorr/internal/validation"
)

// maxBodyBytes caps admin request bodies. 100k observations encode well below it.
const maxBodyBytes = 32 << 20

// optionalInt reads an integer query parameter. Absent or blank yields nil.
func optionalInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", recommend.ErrInvalidArgument, key, raw)
	}
	return &v, nil
}

// intOr reads an integer query parameter, falling back to def when absent.
func intOr(r *http.Request, key string, def int) (int, error) {
	v, err := optionalInt(r, key)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

func parseSimilarRequest(r *http.Request) (*models.SimilarRequest, error) {
	req := &models.SimilarRequest{Title: r.URL.Query().Get("title")}

	var err error
	if req.MinSupport, err = optionalInt(r, "min_support"); err != nil {
		return nil, err
	}
	if req.TopN, err = optionalInt(r, "top_n"); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}

func parseItemStatsRequest(r *http.Request) (*models.ItemStatsRequest, error) {
	req := &models.ItemStatsRequest{Title: r.URL.Query().Get("title")}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}

func parseTopItemsRequest(r *http.Request) (*models.TopItemsRequest, error) {
	req := &models.TopItemsRequest{By: r.URL.Query().Get("by")}

	var err error
	if req.N, err = intOr(r, "n", 10); err != nil {
		return nil, err
	}
	if req.MinCount, err = intOr(r, "min_count", 0); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	if req.By == "" {
		req.By = report.ByMean
	}
	return req, nil
}

func parseDistributionRequest(r *http.Request) (*models.DistributionRequest, error) {
	req := &models.DistributionRequest{Field: r.URL.Query().Get("field")}

	var err error
	if req.Bins, err = intOr(r, "bins", 20); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	if req.Field == "" {
		req.Field = report.ByCount
	}
	return req, nil
}

// decodeIngestRequest reads and validates a POST /observations body.
func decodeIngestRequest(w http.ResponseWriter, r *http.Request) (*models.IngestRequest, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close() //nolint:errcheck // request body

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req models.IngestRequest
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBodyBytes)
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: request body is empty", recommend.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("%w: malformed JSON body: %s", recommend.ErrInvalidArgument, err.Error())
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}
