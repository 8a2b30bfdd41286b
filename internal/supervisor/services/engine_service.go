// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// IndexBuilder is the build surface of the recommendation engine.
//
// Satisfied by *recommend.Engine.
type IndexBuilder interface {
	// Initialize builds the first generation; later calls are no-ops.
	Initialize(ctx context.Context) error

	// Rebuild swaps in a freshly built generation.
	Rebuild(ctx context.Context) error
}

// EngineServiceConfig controls the engine build loop.
type EngineServiceConfig struct {
	// RefreshInterval is the period between scheduled rebuilds.
	// Zero disables scheduled rebuilds.
	RefreshInterval time.Duration
}

// EngineService owns the engine's build lifecycle under supervision.
//
// On start it initializes the engine. A failed initialization is logged and
// left to the next scheduled or requested rebuild; the engine answers with
// empty lists until then. Rebuilds requested through Trigger are coalesced:
// at most one is pending at a time.
type EngineService struct {
	engine  IndexBuilder
	config  EngineServiceConfig
	logger  zerolog.Logger
	trigger chan struct{}
	name    string
}

// NewEngineService creates the engine build service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineService(engine IndexBuilder, cfg EngineServiceConfig, logger zerolog.Logger) *EngineService {
	return &EngineService{
		engine:  engine,
		config:  cfg,
		logger:  logger.With().Str("service", "engine").Logger(),
		trigger: make(chan struct{}, 1),
		name:    "engine-service",
	}
}

// Trigger requests a rebuild. It never blocks and reports false when a
// request is already pending.
func (s *EngineService) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service.
func (s *EngineService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("engine service starting")

	if err := s.engine.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("engine initialization failed, serving empty results until the next rebuild")
	}

	var tick <-chan time.Time
	if s.config.RefreshInterval > 0 {
		ticker := time.NewTicker(s.config.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("engine service shutting down")
			return ctx.Err()

		case <-tick:
			s.logger.Debug().Msg("scheduled rebuild triggered")
			s.rebuild(ctx)

		case <-s.trigger:
			s.logger.Info().Msg("requested rebuild triggered")
			s.rebuild(ctx)
		}
	}
}

func (s *EngineService) rebuild(ctx context.Context) {
	start := time.Now()
	err := s.engine.Rebuild(ctx)
	switch {
	case err == nil:
		s.logger.Info().Dur("duration", time.Since(start)).Msg("rebuild complete")
	case errors.Is(err, recommend.ErrBuildInProgress):
		s.logger.Debug().Msg("rebuild skipped, build already running")
	case ctx.Err() != nil:
		// shutting down
	default:
		s.logger.Warn().Err(err).Msg("rebuild failed")
	}
}

// String returns the service name for logging.
func (s *EngineService) String() string {
	return s.name
}
