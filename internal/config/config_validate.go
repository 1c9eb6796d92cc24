// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/ratingcorr/internal/validation"
)

// minJWTSecretLength matches the HS256 key size.
const minJWTSecretLength = 32

// Validate checks struct tags first, then the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	var errs []error

	if c.Dataset.MinRating > c.Dataset.MaxRating {
		errs = append(errs, fmt.Errorf("dataset.min_rating %v exceeds dataset.max_rating %v",
			c.Dataset.MinRating, c.Dataset.MaxRating))
	}
	if len(c.Dataset.RatingsDelimiter) != 1 {
		errs = append(errs, fmt.Errorf("dataset.ratings_delimiter must be a single character, got %q",
			c.Dataset.RatingsDelimiter))
	}
	if c.Recommend.TopN > c.Recommend.MaxTopN {
		errs = append(errs, fmt.Errorf("recommend.top_n %d exceeds recommend.max_top_n %d",
			c.Recommend.TopN, c.Recommend.MaxTopN))
	}
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength))
	}

	return errors.Join(errs...)
}
