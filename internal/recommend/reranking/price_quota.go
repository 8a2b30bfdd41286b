// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package reranking

import (
	"context"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Price brackets.
const (
	BracketLow  = "low"
	BracketMid  = "mid"
	BracketHigh = "high"
)

// PriceQuota caps how many results each price bracket contributes.
type PriceQuota struct {
	cfg recommend.DiversityConfig
}

// NewPriceQuota creates a price quota reranker.
func NewPriceQuota(cfg recommend.DiversityConfig) *PriceQuota {
	return &PriceQuota{cfg: cfg}
}

// Name returns the reranker identifier.
func (p *PriceQuota) Name() string {
	return "price_quota"
}

// Bracket returns the price bracket of price: low below LowMax, mid below
// MidMax, high otherwise.
func (p *PriceQuota) Bracket(price float64) string {
	switch {
	case price < p.cfg.LowMax:
		return BracketLow
	case price < p.cfg.MidMax:
		return BracketMid
	default:
		return BracketHigh
	}
}

func (p *PriceQuota) quota(bracket string) int {
	switch bracket {
	case BracketLow:
		return p.cfg.LowQuota
	case BracketMid:
		return p.cfg.MidQuota
	default:
		return p.cfg.HighQuota
	}
}

// Rerank walks items in order and admits each one whose bracket is under
// quota, skipping duplicate IDs, until n are admitted. Lists shorter than n
// are returned unchanged. The result may hold fewer than n items when the
// quotas run out.
func (p *PriceQuota) Rerank(_ context.Context, items []recommend.Result, n int) []recommend.Result {
	if len(items) < n {
		return items
	}

	out := make([]recommend.Result, 0, n)
	seen := make(map[int64]struct{}, n)
	counts := make(map[string]int, 3)
	for i := range items {
		if len(out) >= n {
			break
		}
		item := &items[i]
		if _, dup := seen[item.ID]; dup {
			continue
		}
		b := p.Bracket(item.Price)
		if counts[b] >= p.quota(b) {
			continue
		}
		out = append(out, *item)
		seen[item.ID] = struct{}{}
		counts[b]++
	}
	return out
}

// Ensure PriceQuota implements the interface.
var _ recommend.Reranker = (*PriceQuota)(nil)
