// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

// Command token mints a bearer token for the admin endpoints using the
// configured JWT_SECRET and TOKEN_TTL.
//
//	export JWT_SECRET=...
//	curl -X POST -H "Authorization: Bearer $(ratingcorr-token -user ops)" localhost:8080/admin/reload
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomtom215/ratingcorr/internal/auth"
	"github.com/tomtom215/ratingcorr/internal/config"
	"github.com/tomtom215/ratingcorr/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	user := flag.String("user", "admin", "token subject")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: security.token_ttl)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lifetime := cfg.Security.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	if err := issue(os.Stdout, cfg.Security.JWTSecret, *user, *role, lifetime); err != nil {
		logging.Fatal().Err(err).Msg("Failed to issue token")
	}
}

func issue(out io.Writer, secret, user, role string, ttl time.Duration) error {
	manager, err := auth.NewJWTManager(secret, ttl)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(user, role)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
