// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package vectorize turns content documents into dense unit vectors.
//
// Documents are tokenized into unigrams and bigrams, weighted with TF-IDF,
// and reduced with a seeded randomized truncated SVD. Every output row is
// L2-normalized so squared Euclidean distance between two vectors equals
// 2 - 2*cosine.
//
// The same documents, configuration, and seed always yield the same
// vectors.
package vectorize

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.Vectorizer = (*Vectorizer)(nil)

// Vectorizer is a TF-IDF plus truncated SVD document vectorizer.
type Vectorizer struct {
	cfg  recommend.VectorizerConfig
	seed int64
}

// New creates a vectorizer. Non-positive settings fall back to one.
func New(cfg recommend.VectorizerConfig, seed int64) *Vectorizer {
	if cfg.Components < 1 {
		cfg.Components = 1
	}
	if cfg.MinDocFreq < 1 {
		cfg.MinDocFreq = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Vectorizer{cfg: cfg, seed: seed}
}

// Vectorize returns one unit-length vector per document. The vector width
// is min(Components, vocabulary size, document count).
func (v *Vectorizer) Vectorize(ctx context.Context, docs []string) ([][]float32, error) {
	if len(docs) == 0 {
		return nil, errors.New("no documents to vectorize")
	}

	m, _, err := tfidf(docs, v.cfg.MinDocFreq, v.cfg.MaxFeatures)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := min(v.cfg.Components, m.cols, m.rows)
	x, err := randomizedSVD(ctx, m, k, v.cfg.Oversample, v.cfg.PowerIterations, v.cfg.Workers, v.seed)
	if err != nil {
		return nil, fmt.Errorf("truncated svd: %w", err)
	}
	return normalizeRows(x, m.rows), nil
}

// normalizeRows converts the column-major projection into unit-length
// float32 rows. A zero row becomes the uniform unit vector.
func normalizeRows(x dense, rows int) [][]float32 {
	k := len(x)
	out := make([][]float32, rows)
	uniform := float32(1 / math.Sqrt(float64(k)))
	for r := 0; r < rows; r++ {
		var norm float64
		for c := 0; c < k; c++ {
			norm += x[c][r] * x[c][r]
		}
		row := make([]float32, k)
		if norm == 0 {
			for c := range row {
				row[c] = uniform
			}
		} else {
			norm = math.Sqrt(norm)
			for c := range row {
				row[c] = float32(x[c][r] / norm)
			}
		}
		out[r] = row
	}
	return out
}
