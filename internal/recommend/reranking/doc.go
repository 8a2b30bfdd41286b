// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package reranking implements post-ranking passes over recommendation lists.
//
// Rerankers run after candidates are scored and sorted by similarity:
//
//	Index search -> Scoring -> Sort -> Rerankers -> Final list
//
// # Available Rerankers
//
// Price quota (the diversity refiner):
//   - Buckets results into low, mid, and high price brackets
//   - Admits results in rank order while their bracket is under quota
//   - Skips duplicate IDs and stops at n
//   - Leaves lists shorter than n untouched
//
// Maximal Marginal Relevance (MMR):
//   - Trades similarity against genre overlap with already-selected results
//   - Lambda 1.0 keeps pure similarity order; lower values push genre variety
//   - Reorders the whole list without truncating, so the price quota
//     after it can still backfill an under-filled bracket
//   - Disabled unless configured
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []Result, n int) []Result
//	}
//
// # Usage Example
//
// MMR goes first; the price quota applies n.
//
//	rerankers := []recommend.Reranker{
//	    reranking.NewMMR(0.8),
//	    reranking.NewPriceQuota(cfg.Diversity),
//	}
//
// # Thread Safety
//
// Rerankers are stateless and safe for concurrent use.
package reranking
