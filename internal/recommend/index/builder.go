// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.IndexBuilder = (*Builder)(nil)

// Builder chooses and builds an index for a vector set. Corpora smaller
// than MinSamples get an exact flat index; larger ones get an IVF index
// with at most n/MinPointsPerList partitions.
type Builder struct {
	cfg  recommend.IndexConfig
	seed int64
}

// NewBuilder creates a builder.
func NewBuilder(cfg recommend.IndexConfig, seed int64) *Builder {
	return &Builder{cfg: cfg, seed: seed}
}

// Build indexes vectors. ids[i] identifies vectors[i].
func (b *Builder) Build(ctx context.Context, ids []int64, vectors [][]float32) (recommend.VectorIndex, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to index")
	}
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%d ids for %d vectors", len(ids), len(vectors))
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("vectors have zero dimensions")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dim)
		}
	}

	if len(vectors) < b.cfg.MinSamples {
		return NewFlat(ids, vectors), nil
	}

	ivf, err := NewIVF(ctx, ids, vectors, b.NList(len(vectors)), b.cfg.NProbe, b.cfg.KMeansIterations, b.seed)
	if err != nil {
		return nil, fmt.Errorf("train ivf: %w", err)
	}
	return ivf, nil
}

// NList returns the partition count used for a corpus of n vectors.
func (b *Builder) NList(n int) int {
	nlist := b.cfg.NList
	if b.cfg.MinPointsPerList > 0 {
		nlist = min(nlist, n/b.cfg.MinPointsPerList)
	}
	return max(1, nlist)
}
