// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"context"
	"errors"
	"time"
)

// CatalogSource loads the catalog snapshot a generation is built from.
// This is typically implemented by the catalog store.
type CatalogSource interface {
	// FetchCatalog returns every record with popularity above minPopularity,
	// in a stable order.
	FetchCatalog(ctx context.Context, minPopularity float64) ([]CatalogRecord, error)
}

// FeatureExtractor derives per-record features. Extraction never fails for
// a single record; the error covers cancellation only.
type FeatureExtractor interface {
	Extract(rec *CatalogRecord) DerivedFeatures
	ExtractAll(ctx context.Context, records []CatalogRecord) ([]DerivedFeatures, error)
}

// Vectorizer turns documents into unit-length dense vectors, one per
// document, in input order.
type Vectorizer interface {
	Vectorize(ctx context.Context, docs []string) ([][]float32, error)
}

// VectorIndex answers k-nearest-neighbor queries. Implementations are
// immutable after construction and safe for concurrent searches.
type VectorIndex interface {
	// Search returns up to k neighbors ordered by ascending distance.
	Search(query []float32, k int) []Neighbor

	// Len returns the number of indexed vectors.
	Len() int

	// Kind names the index type, e.g. "flat" or "ivf".
	Kind() string
}

// IndexBuilder builds a VectorIndex over a vector set.
type IndexBuilder interface {
	Build(ctx context.Context, ids []int64, vectors [][]float32) (VectorIndex, error)
}

// NameResolver maps free-text names to catalog positions.
type NameResolver interface {
	// Resolve returns the position of the best match, or false.
	Resolve(ctx context.Context, query string) (int, bool)

	// Suggest returns up to k positions nearest to the query.
	Suggest(ctx context.Context, query string, k int) []int
}

// ResolverBuilder builds a NameResolver over a record set.
type ResolverBuilder interface {
	Build(ctx context.Context, records []CatalogRecord) (NameResolver, error)
}

// Scorer scores one candidate against the base record.
// ok is false when the candidate is rejected.
type Scorer interface {
	Score(base, cand *Profile, distance float32, opts ScoreOptions) (scored Scored, ok bool)
}

// Reranker post-processes a ranked result list.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank returns the reordered or filtered list. Order-only passes keep
	// every item so later passes can backfill; the engine cuts to n last.
	Rerank(ctx context.Context, items []Result, n int) []Result
}

// SnapshotStore persists computed vectors keyed by a catalog fingerprint.
type SnapshotStore interface {
	// LoadVectors returns the vectors stored under key. found is false on a miss.
	LoadVectors(ctx context.Context, key string) (vectors [][]float32, found bool, err error)

	// SaveVectors stores vectors under key.
	SaveVectors(ctx context.Context, key string, vectors [][]float32) error
}

// Observer receives engine events for metrics collection.
type Observer interface {
	ObserveRecommend(d time.Duration, cacheHit bool, results int)
	ObserveBuild(d time.Duration, attempt int, err error)
	ObserveGeneration(generation uint64, records int, indexKind string)
}

// Components are the pluggable parts of an engine.
type Components struct {
	Catalog    CatalogSource
	Features   FeatureExtractor
	Vectorizer Vectorizer
	Index      IndexBuilder
	Resolver   ResolverBuilder
	Scorer     Scorer

	// Rerankers run in order after sorting. Optional.
	Rerankers []Reranker

	// Snapshots caches vectors across restarts. Optional.
	Snapshots SnapshotStore

	// Observer receives metrics events. Optional.
	Observer Observer
}

func (c *Components) validate() error {
	switch {
	case c.Catalog == nil:
		return errors.New("catalog source not set")
	case c.Features == nil:
		return errors.New("feature extractor not set")
	case c.Vectorizer == nil:
		return errors.New("vectorizer not set")
	case c.Index == nil:
		return errors.New("index builder not set")
	case c.Resolver == nil:
		return errors.New("resolver builder not set")
	case c.Scorer == nil:
		return errors.New("scorer not set")
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) ObserveRecommend(time.Duration, bool, int) {}
func (nopObserver) ObserveBuild(time.Duration, int, error)    {}
func (nopObserver) ObserveGeneration(uint64, int, string)     {}
