// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

/*
Package services adapts ratingcorr components to suture.Service.

HTTPServerService turns ListenAndServe/Shutdown into a context-aware Serve.
ReloadService re-reads the dataset on a fixed interval through the engine.

Each service implements fmt.Stringer so supervisor events name it.
*/
package services
