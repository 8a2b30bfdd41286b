// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package metrics

import (
	"time"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.Observer = Observer{}

// Observer forwards engine events to the package collectors.
type Observer struct{}

// ObserveRecommend implements recommend.Observer.
func (Observer) ObserveRecommend(d time.Duration, cacheHit bool, results int) {
	RecordRecommend(d, cacheHit, results)
}

// ObserveBuild implements recommend.Observer.
func (Observer) ObserveBuild(d time.Duration, attempt int, err error) {
	RecordBuild(d, attempt, err)
}

// ObserveGeneration implements recommend.Observer.
func (Observer) ObserveGeneration(generation uint64, records int, indexKind string) {
	RecordGeneration(generation, records, indexKind)
}
