// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package resolver maps free-text game names to catalog positions.
//
// Resolution embeds the query, takes the nearest catalog name, and accepts
// it when the cosine similarity exceeds a threshold. When it does not, the
// cleaned query is compared exactly against each record's cleaned name and
// the first record in catalog order wins.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/gamescout/internal/recommend"
	"github.com/tomtom215/gamescout/internal/recommend/index"
)

// Compile-time interface checks.
var (
	_ recommend.ResolverBuilder = (*Builder)(nil)
	_ recommend.NameResolver    = (*Resolver)(nil)
)

// Builder builds name resolvers over record sets.
type Builder struct {
	cfg      recommend.ResolverConfig
	embedder Embedder
}

// NewBuilder creates a builder. A nil embedder selects the hashing
// embedder with cfg.HashDimensions buckets.
func NewBuilder(cfg recommend.ResolverConfig, embedder Embedder) *Builder {
	if embedder == nil {
		embedder = NewHashingEmbedder(cfg.HashDimensions)
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 512
	}
	return &Builder{cfg: cfg, embedder: embedder}
}

// Embedder returns the embedder used for names.
func (b *Builder) Embedder() Embedder { return b.embedder }

// Build embeds every record name and indexes the vectors.
func (b *Builder) Build(ctx context.Context, records []recommend.CatalogRecord) (recommend.NameResolver, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to index")
	}

	names := make([]string, len(records))
	ids := make([]int64, len(records))
	exact := make(map[string]int, len(records))
	for i := range records {
		rec := &records[i]
		names[i] = strings.ToLower(strings.TrimSpace(rec.Name))
		ids[i] = rec.ID

		key := rec.CleanName
		if key == "" {
			key = rec.Name
		}
		if key = Clean(key); key != "" {
			if _, dup := exact[key]; !dup {
				exact[key] = i
			}
		}
	}

	vectors := make([][]float32, 0, len(names))
	for start := 0; start < len(names); start += b.cfg.BatchSize {
		end := min(start+b.cfg.BatchSize, len(names))
		batch, err := b.embedder.Embed(ctx, names[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed names %d-%d: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedder returned %d vectors for %d names", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}

	return &Resolver{
		embedder:  b.embedder,
		index:     index.NewFlat(ids, vectors),
		exact:     exact,
		threshold: b.cfg.Threshold,
	}, nil
}

// Resolver resolves names against one record set. It is immutable and safe
// for concurrent use.
type Resolver struct {
	embedder  Embedder
	index     *index.Flat
	exact     map[string]int
	threshold float64
}

// Resolve returns the catalog position a query names.
func (r *Resolver) Resolve(ctx context.Context, query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	key := Clean(q)
	if key == "" {
		return 0, false
	}

	if vec, err := r.embedOne(ctx, q); err == nil {
		if nn := r.index.Search(vec, 1); len(nn) == 1 && Cosine(nn[0].Distance) > r.threshold {
			return nn[0].Position, true
		}
	}

	if pos, ok := r.exact[key]; ok {
		return pos, true
	}
	return 0, false
}

// Suggest returns up to k positions whose names embed nearest to the query.
func (r *Resolver) Suggest(ctx context.Context, query string, k int) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || k <= 0 {
		return nil
	}
	vec, err := r.embedOne(ctx, q)
	if err != nil {
		return nil
	}
	nn := r.index.Search(vec, k)
	out := make([]int, len(nn))
	for i, n := range nn {
		out[i] = n.Position
	}
	return out
}

func (r *Resolver) embedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := r.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 text", len(vecs))
	}
	return vecs[0], nil
}

// Cosine converts a squared Euclidean distance between unit vectors into
// cosine similarity.
func Cosine(squaredDistance float32) float64 {
	return 1 - float64(squaredDistance)/2
}
