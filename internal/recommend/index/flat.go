// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package index provides k-nearest-neighbor indexes over dense vectors
// using squared Euclidean distance.
//
// Two index kinds are available:
//   - Flat: exact exhaustive search, used for small corpora
//   - IVF: inverted-file search that partitions vectors with k-means and
//     scans only the partitions nearest to the query
//
// Indexes are immutable after construction and safe for concurrent use.
package index

import (
	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface checks.
var (
	_ recommend.VectorIndex = (*Flat)(nil)
	_ recommend.VectorIndex = (*IVF)(nil)
)

// Kind names reported by Kind.
const (
	KindFlat = "flat"
	KindIVF  = "ivf"
)

// Flat is an exact exhaustive index.
type Flat struct {
	ids     []int64
	vectors [][]float32
}

// NewFlat indexes vectors. ids[i] is the catalog identifier of vectors[i].
// The slices are retained, not copied.
func NewFlat(ids []int64, vectors [][]float32) *Flat {
	return &Flat{ids: ids, vectors: vectors}
}

// Search returns up to k nearest neighbors by ascending distance.
func (f *Flat) Search(query []float32, k int) []recommend.Neighbor {
	if k <= 0 || len(f.vectors) == 0 {
		return nil
	}
	top := newTopK(min(k, len(f.vectors)))
	for i, v := range f.vectors {
		top.offer(recommend.Neighbor{Position: i, ID: f.ids[i], Distance: squaredL2(query, v)})
	}
	return top.sorted()
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Kind returns "flat".
func (f *Flat) Kind() string { return KindFlat }
