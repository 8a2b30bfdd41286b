// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package recommend implements a content-based recommendation engine for a
// game catalog.
//
// # Architecture
//
// A recommendation generation is built once from a catalog snapshot:
//
//   - Feature extraction: normalized developer, series, keyword sets
//   - Vectorization: TF-IDF over combined text, randomized truncated SVD
//   - Similarity index: inverted-file index, flat scan for small catalogs
//   - Name resolution: embedding index over item names with exact fallback
//
// A request resolves seed names, queries the similarity index with the
// mean seed vector, scores candidates with a weighted multi-factor blend,
// applies hard filters and a per-developer cap, then passes the ranked list
// through the price bracket refiner.
//
// # Components
//
// The engine depends on interfaces only. Concrete implementations live in
// subpackages and are assembled by the caller:
//
//	engine, err := recommend.NewEngine(cfg, recommend.Components{
//	    Catalog:    store,
//	    Features:   features.New(cfg.Features),
//	    Vectorizer: vectorize.New(cfg.Vectorizer, cfg.Seed),
//	    Index:      index.NewBuilder(cfg.Index, cfg.Seed),
//	    Resolver:   resolver.NewBuilder(cfg.Resolver, embedder),
//	    Scorer:     scorer,
//	    Rerankers:  []recommend.Reranker{reranking.NewPriceQuota(cfg.Diversity)},
//	}, logger)
//
//	if err := engine.Initialize(ctx); err != nil { ... }
//	recs, err := engine.Recommend(ctx, recommend.Request{
//	    Seeds: recommend.ParseSeeds("Hades+Celeste"),
//	    N:     15,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. The serving generation is an
// immutable snapshot swapped atomically after a successful rebuild, so
// requests never observe a partially built index. Only one build runs at
// a time.
//
// # Determinism
//
// With the same catalog snapshot and configuration, builds produce the
// same vectors and index, and requests produce the same ordered results.
package recommend
