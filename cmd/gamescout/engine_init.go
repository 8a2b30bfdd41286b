// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/gamescout/internal/catalog"
	"github.com/tomtom215/gamescout/internal/config"
	"github.com/tomtom215/gamescout/internal/metrics"
	"github.com/tomtom215/gamescout/internal/recommend"
	"github.com/tomtom215/gamescout/internal/recommend/features"
	"github.com/tomtom215/gamescout/internal/recommend/index"
	"github.com/tomtom215/gamescout/internal/recommend/reranking"
	"github.com/tomtom215/gamescout/internal/recommend/resolver"
	"github.com/tomtom215/gamescout/internal/recommend/resolver/onnx"
	"github.com/tomtom215/gamescout/internal/recommend/scoring"
	"github.com/tomtom215/gamescout/internal/recommend/storage"
	"github.com/tomtom215/gamescout/internal/recommend/vectorize"
)

// engineStack is an engine with the resources it owns.
type engineStack struct {
	Engine  *recommend.Engine
	Catalog *catalog.Store

	logger  zerolog.Logger
	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (s *engineStack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn().Err(err).Msg("Error releasing engine resource")
		}
	}
	s.closers = nil
}

// timeoutSource bounds every catalog fetch.
type timeoutSource struct {
	source  recommend.CatalogSource
	timeout time.Duration
}

func (t timeoutSource) FetchCatalog(ctx context.Context, minPopularity float64) ([]recommend.CatalogRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.source.FetchCatalog(ctx, minPopularity)
}

// buildEngine opens the catalog and snapshot stores and assembles an
// engine. The engine is not initialized.
func buildEngine(cfg *config.Config, logger zerolog.Logger) (*engineStack, error) {
	stack := &engineStack{logger: logger}
	built := false
	defer func() {
		if !built {
			stack.Close()
		}
	}()

	store, err := catalog.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	stack.Catalog = store
	stack.closers = append(stack.closers, store.Close)

	var source recommend.CatalogSource = store
	if cfg.Catalog.Breaker.Enabled {
		source = catalog.NewBreakerStore(source, cfg.Catalog.Breaker)
	}
	if cfg.Catalog.FetchTimeout > 0 {
		source = timeoutSource{source: source, timeout: cfg.Catalog.FetchTimeout}
	}

	engineCfg := cfg.Engine
	extractor, err := features.New(engineCfg.Features)
	if err != nil {
		return nil, fmt.Errorf("feature extractor: %w", err)
	}

	var embedder resolver.Embedder
	if cfg.Embedder.Enabled {
		e, err := onnx.New(cfg.Embedder.ONNX)
		if err != nil {
			return nil, fmt.Errorf("onnx embedder: %w", err)
		}
		stack.closers = append(stack.closers, e.Close)
		embedder = e
		logger.Info().Str("model", e.Name()).Msg("ONNX name embedder enabled")
	}

	snapshots, err := storage.Open(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	stack.closers = append(stack.closers, snapshots.Close)

	engine, err := recommend.NewEngine(&engineCfg, recommend.Components{
		Catalog:    source,
		Features:   extractor,
		Vectorizer: vectorize.New(engineCfg.Vectorizer, engineCfg.Seed),
		Index:      index.NewBuilder(engineCfg.Index, engineCfg.Seed),
		Resolver:   resolver.NewBuilder(engineCfg.Resolver, embedder),
		Scorer:     scoring.New(engineCfg.Scoring),
		Rerankers:  buildRerankers(&engineCfg, logger),
		Snapshots:  snapshots,
		Observer:   metrics.Observer{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	stack.Engine = engine
	built = true
	return stack, nil
}

// buildRerankers returns the post-ranking passes. Genre MMR only reorders
// and runs when it would change the order; the price quota after it cuts
// to n.
func buildRerankers(cfg *recommend.Config, logger zerolog.Logger) []recommend.Reranker {
	var out []recommend.Reranker
	if cfg.Diversity.GenreLambda < 1 {
		out = append(out, reranking.NewMMR(cfg.Diversity.GenreLambda))
		logger.Info().Float64("lambda", cfg.Diversity.GenreLambda).Msg("Genre MMR reranking enabled")
	}
	return append(out, reranking.NewPriceQuota(cfg.Diversity))
}
