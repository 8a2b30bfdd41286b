// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/gamescout/internal/cache"
)

// generation is an immutable snapshot of everything a request reads.
// A new generation replaces the old one atomically after a full rebuild.
type generation struct {
	number uint64

	records  []CatalogRecord
	profiles []Profile
	byID     map[int64]int

	index    VectorIndex
	resolver NameResolver
	titles   *cache.TitleTrie

	// surprise holds positions eligible for random seed selection.
	surprise []int

	// results memoizes recommendation lists for this generation only.
	results *cache.LRU[[]Result]

	builtAt   time.Time
	buildTime time.Duration
}

// buildGeneration runs the full load and build pipeline once.
func (e *Engine) buildGeneration(ctx context.Context) (*generation, error) {
	start := time.Now()
	cfg := e.config

	records, err := e.comps.Catalog.FetchCatalog(ctx, cfg.Catalog.MinPopularity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	records, dropped := filterBlacklisted(records, cfg.Catalog.ContentBlacklist)
	if dropped > 0 {
		e.logger.Info().Int("dropped", dropped).Msg("dropped blacklisted catalog records")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrDataUnavailable)
	}

	features, err := e.comps.Features.ExtractAll(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	docs := make([]string, len(records))
	for i := range records {
		docs[i] = contentDocument(&records[i], &features[i])
	}

	vectors, err := e.loadOrComputeVectors(ctx, records, docs)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors for %d records", ErrIndexBuildFailure, len(vectors), len(records))
	}

	ids := make([]int64, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	idx, err := e.comps.Index.Build(ctx, ids, vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity index: %w", ErrIndexBuildFailure, err)
	}

	resolver, err := e.comps.Resolver.Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("%w: name index: %w", ErrIndexBuildFailure, err)
	}

	gen := &generation{
		records:  records,
		profiles: make([]Profile, len(records)),
		byID:     make(map[int64]int, len(records)),
		index:    idx,
		resolver: resolver,
		titles:   cache.NewTitleTrie(),
		results:  cache.NewLRU[[]Result](cfg.Cache.MaxEntries),
		builtAt:  time.Now(),
	}
	for i := range records {
		rec := &gen.records[i]
		gen.profiles[i] = Profile{
			Position: i,
			Record:   rec,
			Features: features[i],
			Genres:   rec.GenreList(),
			Vector:   vectors[i],
		}
		if _, dup := gen.byID[rec.ID]; !dup {
			gen.byID[rec.ID] = i
		}
		gen.titles.Insert(rec.Name, i, rec.PopularityScore)
		if rec.PopularityScore > cfg.Surprise.MinPopularity && (!cfg.Surprise.RequirePaid || rec.Price > 0) {
			gen.surprise = append(gen.surprise, i)
		}
	}
	gen.buildTime = time.Since(start)

	return gen, nil
}

// loadOrComputeVectors reuses persisted vectors for an identical catalog
// and configuration, and computes them otherwise.
func (e *Engine) loadOrComputeVectors(ctx context.Context, records []CatalogRecord, docs []string) ([][]float32, error) {
	key := e.fingerprint(records, docs)

	if e.comps.Snapshots != nil {
		vectors, found, err := e.comps.Snapshots.LoadVectors(ctx, key)
		switch {
		case err != nil:
			e.logger.Warn().Err(err).Msg("failed to load vector snapshot, recomputing")
		case found && len(vectors) == len(records):
			e.logger.Info().Str("snapshot", key).Int("vectors", len(vectors)).Msg("loaded vectors from snapshot")
			return vectors, nil
		}
	}

	vectors, err := e.comps.Vectorizer.Vectorize(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize: %w", ErrIndexBuildFailure, err)
	}

	if e.comps.Snapshots != nil {
		if err := e.comps.Snapshots.SaveVectors(ctx, key, vectors); err != nil {
			e.logger.Warn().Err(err).Msg("failed to save vector snapshot")
		}
	}
	return vectors, nil
}

// fingerprint identifies a catalog snapshot plus the settings that shape
// its vectors.
func (e *Engine) fingerprint(records []CatalogRecord, docs []string) string {
	h := fnv.New64a()
	var buf [8]byte
	for i := range records {
		binary.LittleEndian.PutUint64(buf[:], uint64(records[i].ID))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(docs[i]))
		_, _ = h.Write([]byte{0})
	}
	v := e.config.Vectorizer
	fmt.Fprintf(h, "|%d|%d|%d|%d|%d|%d", v.Components, v.MaxFeatures, v.MinDocFreq, v.Oversample, v.PowerIterations, e.config.Seed)
	return fmt.Sprintf("vectors/%016x", h.Sum64())
}

// contentDocument joins the text fields the vectorizer reads.
func contentDocument(rec *CatalogRecord, f *DerivedFeatures) string {
	parts := []string{
		rec.Genres,
		rec.TagText(),
		rec.ShortDescription,
		rec.Developer,
		strings.Join(f.Visual, " "),
	}
	return strings.Join(parts, " ")
}

// filterBlacklisted drops records whose name or short description contains
// a blacklisted term.
func filterBlacklisted(records []CatalogRecord, blacklist []string) ([]CatalogRecord, int) {
	if len(blacklist) == 0 {
		return records, 0
	}
	terms := make([]string, 0, len(blacklist))
	for _, t := range blacklist {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	kept := records[:0:0]
	for i := range records {
		text := strings.ToLower(records[i].Name + " " + records[i].ShortDescription)
		blocked := false
		for _, t := range terms {
			if strings.Contains(text, t) {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, records[i])
		}
	}
	return kept, len(records) - len(kept)
}

// meanVector averages vectors and re-normalizes to unit length.
// A zero mean stays zero.
func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sum[i] += float64(v[i])
		}
	}
	var norm float64
	for i := range sum {
		sum[i] /= float64(len(vectors))
		norm += sum[i] * sum[i]
	}
	norm = math.Sqrt(norm)
	out := make([]float32, dim)
	for i := range sum {
		if norm > 0 {
			out[i] = float32(sum[i] / norm)
		}
	}
	return out
}
