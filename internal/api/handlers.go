// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/gamescout/internal/catalog"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// Engine is the recommendation surface the API serves.
//
// Satisfied by *recommend.Engine.
type Engine interface {
	Recommend(ctx context.Context, req recommend.Request) ([]recommend.Result, error)
	Autocomplete(ctx context.Context, query string, limit int) []string
	RandomSeed() (recommend.Seed, bool)
	Genres() []string
	Status() recommend.Status
	Stats() recommend.Stats
	Ready() bool
}

// CommentStore persists per-game comments.
//
// Satisfied by *catalog.Store.
type CommentStore interface {
	AddComment(ctx context.Context, appID int64, content string) (catalog.Comment, error)
	ListComments(ctx context.Context, appID int64, limit int) ([]catalog.Comment, error)
}

// RebuildTrigger requests an asynchronous index rebuild.
//
// Satisfied by *services.EngineService.
type RebuildTrigger interface {
	Trigger() bool
}

// HandlerConfig holds request limits for the handlers.
type HandlerConfig struct {
	// RequestTimeout bounds a single recommendation computation.
	RequestTimeout time.Duration

	// MaxCommentLength caps comment content in runes.
	MaxCommentLength int

	// RebuildPerHour and RebuildBurst size the rebuild token bucket.
	RebuildPerHour float64
	RebuildBurst   int
}

// Handler serves the HTTP API.
type Handler struct {
	engine   Engine
	comments CommentStore
	rebuild  RebuildTrigger
	limiter  *rate.Limiter
	config   HandlerConfig
}

// NewHandler creates the API handler. comments and rebuild may be nil, in
// which case their endpoints answer 503.
func NewHandler(engine Engine, comments CommentStore, rebuild RebuildTrigger, cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxCommentLength <= 0 {
		cfg.MaxCommentLength = catalog.MaxCommentLength
	}
	if cfg.RebuildPerHour <= 0 {
		cfg.RebuildPerHour = 6
	}
	if cfg.RebuildBurst < 1 {
		cfg.RebuildBurst = 1
	}
	return &Handler{
		engine:   engine,
		comments: comments,
		rebuild:  rebuild,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RebuildPerHour/3600), cfg.RebuildBurst),
		config:   cfg,
	}
}
