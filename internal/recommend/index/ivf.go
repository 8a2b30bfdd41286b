// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package index

import (
	"context"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// IVF is an inverted-file index. Vectors are bucketed by their nearest
// centroid; a search scans the nprobe buckets whose centroids are nearest
// to the query.
type IVF struct {
	ids       []int64
	vectors   [][]float32
	centroids [][]float32
	lists     [][]int
	nprobe    int
}

// NewIVF trains nlist centroids and buckets every vector.
func NewIVF(ctx context.Context, ids []int64, vectors [][]float32, nlist, nprobe, iterations int, seed int64) (*IVF, error) {
	nlist = max(1, min(nlist, len(vectors)))
	centroids, err := kmeans(ctx, vectors, nlist, iterations, seed)
	if err != nil {
		return nil, err
	}

	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}
	if _, err := assignAll(ctx, vectors, centroids, assign); err != nil {
		return nil, err
	}

	lists := make([][]int, len(centroids))
	for i, c := range assign {
		lists[c] = append(lists[c], i)
	}

	return &IVF{
		ids:       ids,
		vectors:   vectors,
		centroids: centroids,
		lists:     lists,
		nprobe:    max(1, min(nprobe, len(centroids))),
	}, nil
}

// Search returns up to k approximate nearest neighbors by ascending
// distance. Fewer than k results are returned when the probed buckets hold
// fewer vectors.
func (x *IVF) Search(query []float32, k int) []recommend.Neighbor {
	if k <= 0 || len(x.vectors) == 0 {
		return nil
	}

	probe := newTopK(x.nprobe)
	for c, centroid := range x.centroids {
		probe.offer(recommend.Neighbor{Position: c, Distance: squaredL2(query, centroid)})
	}

	top := newTopK(min(k, len(x.vectors)))
	for _, p := range probe.items {
		for _, i := range x.lists[p.Position] {
			top.offer(recommend.Neighbor{Position: i, ID: x.ids[i], Distance: squaredL2(query, x.vectors[i])})
		}
	}
	return top.sorted()
}

// Len returns the number of indexed vectors.
func (x *IVF) Len() int { return len(x.vectors) }

// Kind returns "ivf".
func (x *IVF) Kind() string { return KindIVF }

// NList returns the number of partitions.
func (x *IVF) NList() int { return len(x.centroids) }

// NProbe returns the number of partitions scanned per query.
func (x *IVF) NProbe() int { return x.nprobe }
