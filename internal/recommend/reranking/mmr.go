// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// maxRerankSize bounds the quadratic similarity matrix; items past it keep
// their incoming order.
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
// It balances similarity to the seeds against genre diversity by
// iteratively selecting results that are both similar and dissimilar to
// already selected results:
//
//	MMR = argmax[lambda * similarity(i) - (1-lambda) * max(genreSim(i, s)) for s in selected]
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// lambda balances similarity vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker. lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank returns every item in MMR order. n is ignored for length: later
// passes such as the price quota need the tail to backfill brackets, and the
// engine applies the final cut.
func (m *MMR) Rerank(ctx context.Context, items []recommend.Result, n int) []recommend.Result {
	if len(items) < 2 || n <= 0 {
		return items
	}

	// Pure relevance keeps the incoming order.
	if m.lambda >= 1.0 {
		return items
	}

	head := items
	if len(head) > maxRerankSize {
		head = items[:maxRerankSize]
	}
	similarities := buildSimilarityMatrix(head)

	selected := make([]recommend.Result, 0, len(items))
	selectedIdx := make([]int, 0, len(head))
	taken := make([]bool, len(head))

	for len(selectedIdx) < len(head) {
		if ctx.Err() != nil {
			break
		}
		bestIdx := -1
		bestMMR := 0.0

		for i := range head {
			if taken[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range selectedIdx {
				if sim := similarities[i][j]; sim > maxSim {
					maxSim = sim
				}
			}
			score := m.lambda*head[i].Similarity - (1-m.lambda)*maxSim
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, head[bestIdx])
		selectedIdx = append(selectedIdx, bestIdx)
		taken[bestIdx] = true
	}

	// Cancellation or an oversized list leaves the rest in incoming order.
	for i := range head {
		if !taken[i] {
			selected = append(selected, head[i])
		}
	}
	return append(selected, items[len(head):]...)
}

// buildSimilarityMatrix computes pairwise genre Jaccard similarity.
func buildSimilarityMatrix(items []recommend.Result) [][]float64 {
	n := len(items)
	sets := make([]map[string]struct{}, n)
	for i := range items {
		sets[i] = lowerSet(items[i].Genres)
	}

	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := jaccard(sets[i], sets[j])
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}
	return similarities
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, g := range items {
		set[strings.ToLower(g)] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for g := range a {
		if _, ok := b[g]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
