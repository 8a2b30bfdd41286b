// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is.
var (
	// ErrDataUnavailable means the catalog is empty or could not be read.
	ErrDataUnavailable = errors.New("catalog data unavailable")

	// ErrResolutionFailure means no seed name resolved to a catalog record.
	ErrResolutionFailure = errors.New("no seed name resolved")

	// ErrIndexBuildFailure means vectorization or index construction failed.
	ErrIndexBuildFailure = errors.New("index build failed")

	// ErrInvalidFilter means a numeric filter value was malformed and ignored.
	ErrInvalidFilter = errors.New("invalid filter value")

	// ErrNotReady means no generation is serving yet.
	ErrNotReady = errors.New("engine not ready")

	// ErrBuildInProgress means a rebuild was requested while one is running.
	ErrBuildInProgress = errors.New("build already in progress")
)
