// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package index

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxTrainPerList bounds the k-means training sample to this many points
// per centroid.
const maxTrainPerList = 256

// kmeans clusters vectors into nlist centroids using k-means++ seeding
// followed by Lloyd iterations. The result depends only on the inputs and
// seed.
func kmeans(ctx context.Context, vectors [][]float32, nlist, iterations int, seed int64) ([][]float32, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x2545f4914f6cdd1d)) //nolint:gosec // reproducible clustering

	train := vectors
	if limit := nlist * maxTrainPerList; len(vectors) > limit {
		perm := rng.Perm(len(vectors))[:limit]
		train = make([][]float32, limit)
		for i, p := range perm {
			train[i] = vectors[p]
		}
	}

	centroids := seedCentroids(train, nlist, rng)
	dim := len(train[0])
	assign := make([]int, len(train))

	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed, err := assignAll(ctx, train, centroids, assign)
		if err != nil {
			return nil, err
		}

		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range train {
			c := assign[i]
			counts[c]++
			for d := 0; d < dim && d < len(v); d++ {
				sums[c][d] += float64(v[d])
			}
		}
		for c := range centroids {
			// An empty cluster keeps its previous centroid.
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = float32(sums[c][d] / float64(counts[c]))
			}
		}

		if it > 0 && changed == 0 {
			break
		}
	}
	return centroids, nil
}

// seedCentroids picks nlist initial centroids with k-means++: each next
// centroid is drawn with probability proportional to its squared distance
// from the nearest centroid chosen so far.
func seedCentroids(train [][]float32, nlist int, rng *rand.Rand) [][]float32 {
	centroids := make([][]float32, 0, nlist)
	pick := func(i int) {
		c := make([]float32, len(train[i]))
		copy(c, train[i])
		centroids = append(centroids, c)
	}

	pick(rng.IntN(len(train)))
	nearest := make([]float64, len(train))
	for i, v := range train {
		nearest[i] = float64(squaredL2(v, centroids[0]))
	}

	for len(centroids) < nlist {
		var total float64
		for _, d := range nearest {
			total += d
		}
		next := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range nearest {
				target -= d
				if target <= 0 {
					next = i
					break
				}
			}
		} else {
			next = rng.IntN(len(train))
		}
		pick(next)

		last := centroids[len(centroids)-1]
		for i, v := range train {
			if d := float64(squaredL2(v, last)); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centroids
}

// assignAll sets assign[i] to the nearest centroid of vectors[i] and
// returns how many assignments changed.
func assignAll(ctx context.Context, vectors, centroids [][]float32, assign []int) (int, error) {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(vectors) + workers - 1) / workers
	changed := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, len(vectors))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				c := nearestCentroid(vectors[i], centroids)
				if c != assign[i] {
					assign[i] = c
					changed[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, n := range changed {
		total += n
	}
	return total, nil
}

// nearestCentroid returns the index of the closest centroid, lowest index
// on ties.
func nearestCentroid(v []float32, centroids [][]float32) int {
	best, bestDist := 0, squaredL2(v, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := squaredL2(v, centroids[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
