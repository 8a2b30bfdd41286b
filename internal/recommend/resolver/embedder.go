// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package resolver

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder turns texts into unit-length vectors of a fixed width.
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the embedding model.
	Name() string
}

// HashingEmbedder embeds text by hashing its character n-grams into a
// fixed number of signed buckets. It needs no model files and is fully
// deterministic, so it suits tests and deployments without ONNX runtime.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a hashing embedder of width dims.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims < 1 {
		dims = 256
	}
	return &HashingEmbedder{dims: dims}
}

// Name returns "hashing".
func (h *HashingEmbedder) Name() string { return "hashing" }

// Dimensions returns the vector width.
func (h *HashingEmbedder) Dimensions() int { return h.dims }

// Embed returns the normalized n-gram vectors of texts. Text without any
// letters or digits embeds to the zero vector.
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.embed(t)
	}
	return out, nil
}

func (h *HashingEmbedder) embed(text string) []float32 {
	vec := make([]float32, h.dims)
	key := Normalize(text)
	if Clean(key) == "" {
		return vec
	}

	runes := []rune(" " + key + " ")
	hasher := fnv.New64a()
	for _, n := range [...]int{2, 3, 4} {
		for i := 0; i+n <= len(runes); i++ {
			hasher.Reset()
			_, _ = hasher.Write([]byte{byte(n)})
			_, _ = hasher.Write([]byte(string(runes[i : i+n])))
			sum := hasher.Sum64()
			bucket := int(sum % uint64(h.dims))
			if sum>>63 == 1 {
				vec[bucket]--
			} else {
				vec[bucket]++
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
