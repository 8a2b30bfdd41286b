// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package features derives per-record features from catalog text fields:
// a canonical developer key, a franchise series tag, and gameplay, theme,
// and visual keyword sets drawn from fixed vocabularies.
package features

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.FeatureExtractor = (*Extractor)(nil)

// minParallelRecords is the catalog size below which extraction runs inline.
const minParallelRecords = 512

type alias struct {
	match     string
	canonical string
}

type series struct {
	pattern *regexp.Regexp
	name    string
}

// Extractor derives features. It is immutable after construction and safe
// for concurrent use.
type Extractor struct {
	gameplay []string
	theme    []string
	visual   []string
	aliases  []alias
	series   []series
	workers  int
}

// New compiles the vocabularies and tables in cfg.
//
//nolint:gocritic // hugeParam: cfg is read once at construction
func New(cfg recommend.FeatureConfig) (*Extractor, error) {
	x := &Extractor{
		gameplay: lowerAll(cfg.Gameplay),
		theme:    lowerAll(cfg.Theme),
		visual:   lowerAll(cfg.Visual),
		workers:  cfg.Workers,
	}
	if x.workers < 1 {
		x.workers = 1
	}
	for _, a := range cfg.DeveloperAliases {
		x.aliases = append(x.aliases, alias{
			match:     strings.ToLower(a.Match),
			canonical: a.Canonical,
		})
	}
	for i, p := range cfg.SeriesPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("series pattern %d: %w", i, err)
		}
		x.series = append(x.series, series{pattern: re, name: p.Series})
	}
	return x, nil
}

// Extract derives the features of one record. It never fails: missing text
// yields empty keyword sets and empty keys.
func (x *Extractor) Extract(rec *recommend.CatalogRecord) recommend.DerivedFeatures {
	text := strings.ToLower(rec.TagText() + " " + rec.ShortDescription)
	return recommend.DerivedFeatures{
		Developer: x.NormalizeDeveloper(rec.Developer),
		Series:    x.Series(rec.Name),
		Gameplay:  Keywords(text, x.gameplay),
		Theme:     Keywords(text, x.theme),
		Visual:    Keywords(text, x.visual),
	}
}

// ExtractAll derives features for every record, in input order.
func (x *Extractor) ExtractAll(ctx context.Context, records []recommend.CatalogRecord) ([]recommend.DerivedFeatures, error) {
	out := make([]recommend.DerivedFeatures, len(records))

	if len(records) < minParallelRecords || x.workers == 1 {
		for i := range records {
			if i%1024 == 0 && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			out[i] = x.Extract(&records[i])
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(records) + x.workers - 1) / x.workers
	for start := 0; start < len(records); start += chunk {
		lo, hi := start, start+chunk
		if hi > len(records) {
			hi = len(records)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				out[i] = x.Extract(&records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeDeveloper maps a raw developer to its canonical name. The first
// alias whose key is a substring of the lower-cased developer wins; with no
// match the lower-cased developer is returned.
func (x *Extractor) NormalizeDeveloper(dev string) string {
	d := strings.ToLower(strings.TrimSpace(dev))
	if d == "" {
		return ""
	}
	for _, a := range x.aliases {
		if strings.Contains(d, a.match) {
			return a.canonical
		}
	}
	return d
}

// Series returns the franchise tag of the first pattern matching the
// lower-cased name, or "".
func (x *Extractor) Series(name string) string {
	n := strings.ToLower(name)
	if n == "" {
		return ""
	}
	for _, s := range x.series {
		if s.pattern.MatchString(n) {
			return s.name
		}
	}
	return ""
}

// Keywords returns the vocabulary terms occurring as substrings of text.
// text must already be lower-cased.
func Keywords(text string, vocab []string) recommend.KeywordSet {
	var found []string
	for _, term := range vocab {
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}
	return recommend.NewKeywordSet(found...)
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
