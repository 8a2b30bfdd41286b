// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package scoring computes the composite similarity of a candidate to a base
// record.
//
// The score blends weighted categorical factors (genre, gameplay, theme,
// visual, price, tag), fixed bonuses for a shared developer or series, the
// calibrated vector similarity from the index distance, and style and
// rare-genre bonuses. Scoring also labels each accepted candidate with
// ordered match reasons and a percentage breakdown.
//
// Scoring is pure: the same inputs always produce the same output.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.Scorer = (*Scorer)(nil)

// Scorer scores candidates. It is immutable and safe for concurrent use.
type Scorer struct {
	cfg        recommend.ScoringConfig
	importance map[string]float64
	rare       map[string]struct{}
	styles     []string
}

// New creates a scorer from cfg.
//
//nolint:gocritic // hugeParam: cfg is read once at construction
func New(cfg recommend.ScoringConfig) *Scorer {
	s := &Scorer{
		cfg:        cfg,
		importance: make(map[string]float64, len(cfg.GenreImportance)),
		rare:       make(map[string]struct{}, len(cfg.RareGenres)),
	}
	for _, g := range cfg.GenreImportance {
		s.importance[g.Genre] = g.Weight
	}
	for _, g := range cfg.RareGenres {
		s.rare[g] = struct{}{}
	}
	for _, t := range cfg.StyleTerms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			s.styles = append(s.styles, t)
		}
	}
	return s
}

// factor pairs a reason with its weighted contribution. Iteration order of
// factors decides ties for the primary reason.
type factor struct {
	reason recommend.MatchReason
	value  float64
}

// Score scores cand against base. distance is the squared Euclidean index
// distance between their vectors. ok is false when the candidate is
// rejected; a candidate rejected by the exclusion filter is reported with
// Excluded set and a single EXCLUDED reason.
func (s *Scorer) Score(base, cand *recommend.Profile, distance float32, opts recommend.ScoreOptions) (recommend.Scored, bool) {
	cfg := &s.cfg

	vectorSim := s.VectorSimilarity(distance)
	rare := s.isRare(base.Genres)
	if !sharesAny(base.Genres, cand.Genres) && !rare && vectorSim < cfg.EarlyRejectFloor {
		return recommend.Scored{}, false
	}

	genreSim := s.WeightedJaccard(base.Genres, cand.Genres)
	gameplaySim := base.Features.Gameplay.Jaccard(cand.Features.Gameplay)
	themeSim := base.Features.Theme.Jaccard(cand.Features.Theme)
	visualSim := base.Features.Visual.Jaccard(cand.Features.Visual)
	priceSim := PriceSimilarity(base.Record.Price, cand.Record.Price)
	tagSim := s.tagSimilarity(base.Record, cand.Record)

	devMatch := base.Features.Developer != "" && base.Features.Developer == cand.Features.Developer
	seriesMatch := base.Features.Series != "" && base.Features.Series == cand.Features.Series

	w := cfg.Weights
	c := recommend.Contributions{
		Genre:    w.Genre * genreSim,
		Gameplay: w.Gameplay * gameplaySim,
		Theme:    w.Theme * themeSim,
		Visual:   w.Visual * visualSim,
		Price:    w.Price * priceSim,
		Tag:      w.Tag * tagSim,
		Vector:   w.Vector * vectorSim,
	}
	if devMatch {
		c.Developer = cfg.Bonuses.Developer
	}
	if seriesMatch {
		c.Series = cfg.Bonuses.Series
	}
	if s.similarStyle(base, cand) {
		c.VisualStyle = cfg.Bonuses.VisualStyle
	}
	if rare {
		c.RareGenre = cfg.Bonuses.RareGenre
	}

	factors := [...]factor{
		{recommend.ReasonGenre, c.Genre},
		{recommend.ReasonGameplay, c.Gameplay},
		{recommend.ReasonTheme, c.Theme},
		{recommend.ReasonVisual, c.Visual},
		{recommend.ReasonPrice, c.Price},
		{recommend.ReasonTag, c.Tag},
		{recommend.ReasonDeveloper, c.Developer},
		{recommend.ReasonSeries, c.Series},
	}
	var score float64
	for _, f := range factors {
		score += f.value
	}
	score += c.Vector + c.VisualStyle + c.RareGenre

	if score < cfg.MinSimilarity {
		return recommend.Scored{}, false
	}

	var reasons []recommend.MatchReason
	if seriesMatch {
		reasons = append(reasons, recommend.ReasonSeries)
	}
	if devMatch {
		reasons = append(reasons, recommend.ReasonDeveloper)
	}
	for _, r := range [...]struct {
		reason recommend.MatchReason
		sim    float64
	}{
		{recommend.ReasonGenre, genreSim},
		{recommend.ReasonGameplay, gameplaySim},
		{recommend.ReasonTheme, themeSim},
		{recommend.ReasonVisual, visualSim},
	} {
		if r.sim > cfg.ReasonThreshold {
			reasons = append(reasons, r.reason)
		}
	}
	if len(reasons) > 0 {
		primary := factors[0]
		for _, f := range factors[1:] {
			if f.value > primary.value {
				primary = f
			}
		}
		reasons = moveToFront(reasons, primary.reason)
	} else {
		reasons = []recommend.MatchReason{recommend.ReasonPopular}
	}

	out := recommend.Scored{
		Reasons:       reasons,
		Contributions: c,
		Breakdown: recommend.Breakdown{
			Genre:      int(genreSim * 100),
			Gameplay:   int(gameplaySim * 100),
			Theme:      int(themeSim * 100),
			Price:      int(priceSim * 100),
			Visual:     max(0, int(cosine(base.Vector, cand.Vector)*100)),
			Popularity: int(cand.Record.PopularityScore),
		},
	}

	if opts.MultiSeed {
		out.Reasons = append([]recommend.MatchReason{recommend.ReasonMultiGame}, out.Reasons...)
		out.Contributions.MultiSeed = cfg.Bonuses.MultiSeed
		score += cfg.Bonuses.MultiSeed
	}

	if len(opts.Exclude) > 0 && score > 0 {
		ratio := ExclusionRatio(cand.Genres, opts.Exclude)
		if ratio >= cfg.MinExclusionMatch {
			score += cfg.ExclusionPenalty
			out.Contributions.Exclusion = cfg.ExclusionPenalty
			if score <= cfg.ExclusionCutoff {
				return recommend.Scored{
					Score:     score,
					Reasons:   []recommend.MatchReason{recommend.ReasonExcluded},
					Breakdown: out.Breakdown,
					Excluded:  true,
				}, false
			}
			out.Reasons = append(out.Reasons, recommend.ReasonExcluded)
			out.Breakdown.Excluded = int(math.RoundToEven(ratio * 100))
			out.Excluded = true
		}
	}

	out.Score = score
	return out, true
}

// VectorSimilarity converts a squared index distance into a similarity in
// [0, 1]: max(0, 1 - sqrt(d)/Calibration).
func (s *Scorer) VectorSimilarity(distance float32) float64 {
	d := math.Max(float64(distance), 0)
	return math.Max(0, 1-math.Sqrt(d)/s.cfg.Calibration)
}

// WeightedJaccard is the Jaccard similarity of two genre lists where each
// genre counts with its importance weight. Unlisted genres weigh 1.
func (s *Scorer) WeightedJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inA, inB := toSet(a), toSet(b)
	var inter, total float64
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [2][]string{a, b} {
		for _, g := range list {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			w := s.weight(g)
			total += w
			_, okA := inA[g]
			_, okB := inB[g]
			if okA && okB {
				inter += w
			}
		}
	}
	if total == 0 {
		return 0
	}
	return inter / total
}

func (s *Scorer) weight(genre string) float64 {
	if w, ok := s.importance[genre]; ok {
		return w
	}
	return 1
}

func (s *Scorer) isRare(genres []string) bool {
	for _, g := range genres {
		if _, ok := s.rare[g]; ok {
			return true
		}
	}
	return false
}

func (s *Scorer) tagSimilarity(base, cand *recommend.CatalogRecord) float64 {
	if s.cfg.TagMode == recommend.TagModeWeighted {
		return TagSimilarity(base.Tags, cand.Tags)
	}
	return s.cfg.TagPlaceholder
}

// similarStyle reports a shared visual keyword, or a style term present in
// both records' name and short description.
func (s *Scorer) similarStyle(base, cand *recommend.Profile) bool {
	if base.Features.Visual.IntersectionSize(cand.Features.Visual) > 0 {
		return true
	}
	if len(s.styles) == 0 {
		return false
	}
	bt := strings.ToLower(base.Record.Name + " " + base.Record.ShortDescription)
	ct := strings.ToLower(cand.Record.Name + " " + cand.Record.ShortDescription)
	for _, term := range s.styles {
		if strings.Contains(bt, term) && strings.Contains(ct, term) {
			return true
		}
	}
	return false
}

// PriceSimilarity is 1 when both prices are zero, 0.2 when exactly one is,
// and min/max otherwise.
func PriceSimilarity(a, b float64) float64 {
	switch {
	case a == 0 && b == 0:
		return 1
	case a == 0 || b == 0:
		return 0.2
	}
	return math.Min(a, b) / math.Max(a, b)
}

// TagSimilarity is the shared vote weight Σmin(a,b) over common tags,
// divided by the total weight of a.
func TagSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	tags := make([]string, 0, len(a))
	for tag := range a {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var shared, total float64
	for _, tag := range tags {
		wa := a[tag]
		total += wa
		if wb, ok := b[tag]; ok {
			shared += math.Min(wa, wb)
		}
	}
	if total <= 0 {
		return 0
	}
	return shared / total
}

// ExclusionRatio is the share of distinct lower-cased exclusion terms found
// among the lower-cased genres.
func ExclusionRatio(genres, exclude []string) float64 {
	ex := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		ex[strings.ToLower(e)] = struct{}{}
	}
	if len(ex) == 0 {
		return 0
	}
	hit := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.ToLower(g)
		if _, ok := ex[g]; ok {
			hit[g] = struct{}{}
		}
	}
	return float64(len(hit)) / float64(len(ex))
}

func sharesAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

// moveToFront removes reason from reasons if present and inserts it first.
func moveToFront(reasons []recommend.MatchReason, reason recommend.MatchReason) []recommend.MatchReason {
	out := make([]recommend.MatchReason, 0, len(reasons)+1)
	out = append(out, reason)
	for _, r := range reasons {
		if r != reason {
			out = append(out, r)
		}
	}
	return out
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}
