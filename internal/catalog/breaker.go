// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gamescout/internal/config"
	"github.com/tomtom215/gamescout/internal/logging"
	"github.com/tomtom215/gamescout/internal/metrics"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.CatalogSource = (*BreakerStore)(nil)

// BreakerStore guards a catalog source with a circuit breaker. While the
// breaker is open, fetches fail immediately with gobreaker.ErrOpenState.
//
// The breaker uses real time for its interval and timeout; tests exercise
// the trip and reject paths, not recovery timing.
type BreakerStore struct {
	source recommend.CatalogSource
	cb     *gobreaker.CircuitBreaker[[]recommend.CatalogRecord]
	name   string
}

// NewBreakerStore wraps source. Context cancellation by the caller does not
// count as a failure.
func NewBreakerStore(source recommend.CatalogSource, cfg config.BreakerConfig) *BreakerStore {
	const name = "catalog"
	logger := logging.WithComponent("catalog")

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]recommend.CatalogRecord](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening catalog circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Catalog circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerStore{source: source, cb: cb, name: name}
}

// FetchCatalog implements recommend.CatalogSource.
func (b *BreakerStore) FetchCatalog(ctx context.Context, minPopularity float64) ([]recommend.CatalogRecord, error) {
	records, err := b.cb.Execute(func() ([]recommend.CatalogRecord, error) {
		return b.source.FetchCatalog(ctx, minPopularity)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return records, err
}

// State returns the breaker state: closed, half-open, or open.
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
