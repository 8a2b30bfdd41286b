// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Image and store URL templates for records without their own.
const (
	fallbackImageURL = "https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg"
	fallbackStoreURL = "https://store.steampowered.com/app/%d"
)

// Engine builds and serves recommendation generations.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	comps    Components
	observer Observer

	// Serving generation. Nil until the first successful build.
	gen        atomic.Pointer[generation]
	genCounter atomic.Uint64

	// Build state
	buildMu    sync.Mutex
	statusMu   sync.RWMutex
	state      State
	lastError  string
	rebuilding atomic.Bool

	// Metrics
	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	emptyNotReady atomic.Int64
	builds        atomic.Int64
	buildErrors   atomic.Int64

	// Random source for seed selection (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a new recommendation engine. It does not build an
// index; call Initialize.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, comps Components, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := comps.validate(); err != nil {
		return nil, fmt.Errorf("invalid components: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	observer := comps.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	e := &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		comps:    comps,
		observer: observer,
		state:    StateUninitialized,
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for seed selection
	}

	if sum := cfg.Scoring.Weights.Sum(); math.Abs(sum-1) > 0.01 {
		e.logger.Warn().
			Float64("sum", sum).
			Msg("base scoring weights do not sum to 1; bonuses are additive on top")
	}

	for _, rr := range comps.Rerankers {
		e.logger.Info().Str("reranker", rr.Name()).Msg("registered reranker")
	}

	return e, nil
}

// Initialize builds the first generation. It is idempotent: once a
// generation is serving, later calls return nil immediately. Concurrent
// callers wait for the running build.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.gen.Load() != nil {
		return nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	if e.gen.Load() != nil {
		return nil
	}

	e.setState(StateInitializing, "")
	e.logger.Info().Msg("initializing recommendation engine")

	gen, err := e.buildWithRetry(ctx)
	if err != nil {
		e.setState(StateFailed, err.Error())
		e.logger.Error().Err(err).Msg("engine initialization failed")
		return err
	}

	e.install(gen)
	return nil
}

// Rebuild builds a new generation from the current catalog and swaps it in.
// Requests keep reading the previous generation until the swap. On failure
// the previous generation, if any, keeps serving and the error is recorded
// in Status. Returns ErrBuildInProgress if a build is already running.
func (e *Engine) Rebuild(ctx context.Context) error {
	if !e.buildMu.TryLock() {
		return ErrBuildInProgress
	}
	defer e.buildMu.Unlock()

	e.rebuilding.Store(true)
	defer e.rebuilding.Store(false)

	hadGeneration := e.gen.Load() != nil
	if !hadGeneration {
		e.setState(StateInitializing, "")
	}
	e.logger.Info().Bool("replacing", hadGeneration).Msg("rebuilding recommendation index")

	gen, err := e.buildWithRetry(ctx)
	if err != nil {
		if hadGeneration {
			e.setState(StateReady, err.Error())
			e.logger.Error().Err(err).Msg("rebuild failed, previous generation still serving")
		} else {
			e.setState(StateFailed, err.Error())
			e.logger.Error().Err(err).Msg("rebuild failed")
		}
		return err
	}

	e.install(gen)
	return nil
}

// buildWithRetry runs buildGeneration up to RetryAttempts times with
// exponential backoff. Each attempt is bounded by Init.Timeout.
func (e *Engine) buildWithRetry(ctx context.Context) (*generation, error) {
	attempts := e.config.Init.RetryAttempts
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.config.Init.Timeout)
		start := time.Now()
		gen, err := e.buildGeneration(attemptCtx)
		cancel()

		e.builds.Add(1)
		e.observer.ObserveBuild(time.Since(start), attempt, err)

		if err == nil {
			return gen, nil
		}

		lastErr = err
		e.buildErrors.Add(1)
		e.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("index build attempt failed")

		if ctx.Err() != nil {
			return nil, fmt.Errorf("build canceled: %w", errors.Join(ctx.Err(), lastErr))
		}
		if attempt == attempts {
			break
		}

		backoff := e.config.Init.RetryBackoff << (attempt - 1)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("build canceled: %w", errors.Join(ctx.Err(), lastErr))
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("build failed after %d attempts: %w", attempts, lastErr)
}

// install publishes a freshly built generation.
func (e *Engine) install(gen *generation) {
	gen.number = e.genCounter.Add(1)
	e.gen.Store(gen)
	e.setState(StateReady, "")

	e.observer.ObserveGeneration(gen.number, len(gen.records), gen.index.Kind())
	e.logger.Info().
		Uint64("generation", gen.number).
		Int("records", len(gen.records)).
		Str("index", gen.index.Kind()).
		Int("surprise_pool", len(gen.surprise)).
		Int64("duration_ms", gen.buildTime.Milliseconds()).
		Msg("recommendation index ready")
}

func (e *Engine) setState(s State, errMsg string) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.state = s
	e.lastError = errMsg
}

// Ready reports whether a generation is serving.
func (e *Engine) Ready() bool {
	return e.gen.Load() != nil
}

// Recommend returns items similar to the request's seeds.
//
// It never fails for a well-formed request: an engine that is not ready
// and a request whose seeds all fail to resolve both yield an empty list.
// The only error is context cancellation.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) ([]Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	gen := e.gen.Load()
	if gen == nil {
		e.emptyNotReady.Add(1)
		return []Result{}, nil
	}

	n := e.clampN(req.N)
	seeds := canonicalSeeds(req.Seeds)
	if len(seeds) > e.config.Limits.MaxSeeds {
		seeds = seeds[:e.config.Limits.MaxSeeds]
	}
	filters := normalizeFilters(req.Filters)
	logger := e.requestLogger(req, gen)

	key := cacheKey(seeds, n, &filters)
	if e.config.Cache.Enabled {
		if cached, ok := gen.results.Get(key); ok {
			e.cacheHits.Add(1)
			e.observer.ObserveRecommend(time.Since(start), true, len(cached))
			logger.Debug().Int("results", len(cached)).Msg("served recommendations from cache")
			return cloneResults(cached), nil
		}
		e.cacheMisses.Add(1)
	}

	results, resolved, err := e.compute(ctx, gen, seeds, n, &filters, logger)
	if err != nil {
		return nil, err
	}

	if resolved && e.config.Cache.Enabled {
		gen.results.Add(key, cloneResults(results))
	}

	e.observer.ObserveRecommend(time.Since(start), false, len(results))
	logger.Debug().
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("computed recommendations")

	return results, nil
}

// compute runs resolution, retrieval, filtering, scoring, and refinement.
// resolved is false when no seed matched a record.
//
//nolint:gocyclo // sequential pipeline reads best in one place
func (e *Engine) compute(ctx context.Context, gen *generation, seeds []string, n int, filters *Filters, logger zerolog.Logger) (results []Result, resolved bool, err error) {
	positions := e.resolveSeeds(ctx, gen, seeds, logger)
	if len(positions) == 0 {
		logger.Debug().Strs("seeds", seeds).Msg("no seed resolved")
		return []Result{}, false, nil
	}

	base := &gen.profiles[positions[0]]
	query := base.Vector
	if len(positions) > 1 {
		vectors := make([][]float32, len(positions))
		for i, p := range positions {
			vectors[i] = gen.profiles[p].Vector
		}
		query = meanVector(vectors)
	}

	k := n * e.config.Limits.CandidateMultiplier
	if k > len(gen.records) {
		k = len(gen.records)
	}
	neighbors := gen.index.Search(query, k)

	seen := make(map[int64]struct{}, len(neighbors))
	for _, p := range positions {
		seen[gen.records[p].ID] = struct{}{}
	}

	matcher := newGenreMatcher(filters.Genres)
	opts := ScoreOptions{
		Exclude:   filters.Exclude,
		MultiSeed: len(positions) > 1,
	}
	minSim := e.config.Scoring.MinSimilarity
	devCap := e.config.Limits.MaxPerDeveloper
	devCounts := make(map[string]int)
	results = make([]Result, 0, n)

	for i, nb := range neighbors {
		if i%64 == 0 && ctx.Err() != nil {
			return nil, true, ctx.Err()
		}
		if nb.Position < 0 || nb.Position >= len(gen.profiles) {
			continue
		}
		cand := &gen.profiles[nb.Position]
		if _, dup := seen[cand.Record.ID]; dup {
			continue
		}
		if !matcher.match(cand.Genres) {
			continue
		}
		if !passesRange(cand.Record, filters) {
			continue
		}

		scored, ok := e.comps.Scorer.Score(base, cand, nb.Distance, opts)
		if !ok || scored.Score < minSim {
			continue
		}
		if len(scored.Reasons) > 0 && scored.Reasons[0] == ReasonExcluded {
			continue
		}

		dev := cand.Features.Developer
		if dev != "" && devCounts[dev] >= devCap {
			continue
		}

		results = append(results, toResult(cand.Record, &scored))
		if dev != "" {
			devCounts[dev]++
		}
		seen[cand.Record.ID] = struct{}{}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	for _, rr := range e.comps.Rerankers {
		results = rr.Rerank(ctx, results, n)
	}
	if len(results) > n {
		results = results[:n]
	}

	return results, true, nil
}

// resolveSeeds maps seed names to distinct record positions in seed order.
func (e *Engine) resolveSeeds(ctx context.Context, gen *generation, seeds []string, logger zerolog.Logger) []int {
	positions := make([]int, 0, len(seeds))
	used := make(map[int]struct{}, len(seeds))
	for _, s := range seeds {
		p, ok := gen.resolver.Resolve(ctx, s)
		if !ok || p < 0 || p >= len(gen.records) {
			logger.Debug().Str("seed", s).Msg("seed did not resolve")
			continue
		}
		if _, dup := used[p]; dup {
			continue
		}
		used[p] = struct{}{}
		positions = append(positions, p)
	}
	return positions
}

// Autocomplete returns display names containing the query, ranked by name
// embedding proximity. When enabled, remaining slots are filled from the
// title prefix index ranked by popularity.
func (e *Engine) Autocomplete(ctx context.Context, query string, limit int) []string {
	gen := e.gen.Load()
	q := strings.ToLower(strings.TrimSpace(query))
	if gen == nil || q == "" {
		return []string{}
	}

	cfg := e.config.Autocomplete
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	out := make([]string, 0, limit)
	used := make(map[int]struct{}, limit)
	for _, p := range gen.resolver.Suggest(ctx, q, limit*cfg.SearchMultiplier) {
		if len(out) >= limit {
			break
		}
		if p < 0 || p >= len(gen.records) {
			continue
		}
		name := gen.records[p].Name
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
			used[p] = struct{}{}
		}
	}

	if cfg.PrefixFallback && len(out) < limit {
		for _, m := range gen.titles.Complete(q, limit*cfg.SearchMultiplier) {
			if len(out) >= limit {
				break
			}
			if _, dup := used[m.Position]; dup {
				continue
			}
			used[m.Position] = struct{}{}
			out = append(out, m.Title)
		}
	}

	return out
}

// RandomSeed picks a random well-rated paid item. ok is false when the
// engine is not ready or no item qualifies.
func (e *Engine) RandomSeed() (Seed, bool) {
	gen := e.gen.Load()
	if gen == nil || len(gen.surprise) == 0 {
		return Seed{}, false
	}

	e.rngMu.Lock()
	i := e.rng.Intn(len(gen.surprise))
	e.rngMu.Unlock()

	rec := &gen.records[gen.surprise[i]]
	return Seed{Name: rec.Name, ID: rec.ID}, true
}

// Lookup returns the record with the given ID from the serving generation.
func (e *Engine) Lookup(id int64) (CatalogRecord, bool) {
	gen := e.gen.Load()
	if gen == nil {
		return CatalogRecord{}, false
	}
	p, ok := gen.byID[id]
	if !ok {
		return CatalogRecord{}, false
	}
	return gen.records[p], true
}

// Genres returns the genres offered to clients for filtering.
func (e *Engine) Genres() []string {
	return cloneStrings(e.config.Genres)
}

// Status returns the current lifecycle status.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	st := Status{
		State:      e.state,
		StateName:  e.state.String(),
		Error:      e.lastError,
		Rebuilding: e.rebuilding.Load(),
	}
	e.statusMu.RUnlock()

	if gen := e.gen.Load(); gen != nil {
		st.Generation = gen.number
		st.Records = len(gen.records)
		st.IndexKind = gen.index.Kind()
		st.BuiltAt = gen.builtAt
		st.BuildDuration = gen.buildTime.Milliseconds()
	}
	return st
}

// Stats returns cumulative request and build counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:      e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		EmptyNotReady: e.emptyNotReady.Load(),
		Builds:        e.builds.Load(),
		BuildErrors:   e.buildErrors.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

func (e *Engine) clampN(n int) int {
	if n <= 0 {
		return e.config.Limits.DefaultN
	}
	if n > e.config.Limits.MaxN {
		return e.config.Limits.MaxN
	}
	return n
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) requestLogger(req Request, gen *generation) zerolog.Logger {
	ctx := e.logger.With().Uint64("generation", gen.number)
	if req.RequestID != "" {
		ctx = ctx.Str("request_id", req.RequestID)
	}
	return ctx.Logger()
}

// normalizeFilters canonicalizes term lists so equivalent filters share a
// cache key.
//
//nolint:gocritic // hugeParam: f passed by value for immutability
func normalizeFilters(f Filters) Filters {
	f.Genres = canonicalTerms(f.Genres)
	f.Exclude = canonicalTerms(f.Exclude)
	return f
}

func toResult(rec *CatalogRecord, s *Scored) Result {
	primary := 0
	if len(s.Reasons) > 0 {
		primary = s.Reasons[0].Code()
	}
	genres := rec.GenreList()
	if genres == nil {
		genres = []string{}
	}
	return Result{
		ID:              rec.ID,
		Name:            rec.Name,
		ImageURL:        imageURL(rec),
		Genres:          genres,
		Price:           rec.Price,
		StoreURL:        storeURL(rec),
		Similarity:      round4(s.Score),
		MatchReasons:    ReasonViews(s.Reasons),
		PrimaryMatch:    primary,
		Breakdown:       s.Breakdown,
		Year:            rec.YearText(),
		Playtime:        rec.AveragePlaytime,
		PopularityScore: rec.PopularityScore,
	}
}

func imageURL(rec *CatalogRecord) string {
	if strings.HasPrefix(rec.HeaderImage, "http") {
		return rec.HeaderImage
	}
	return fmt.Sprintf(fallbackImageURL, rec.ID)
}

func storeURL(rec *CatalogRecord) string {
	if rec.StoreURL != "" {
		return rec.StoreURL
	}
	return fmt.Sprintf(fallbackStoreURL, rec.ID)
}

// cloneResults copies a result list so cached entries cannot be mutated
// by callers.
func cloneResults(in []Result) []Result {
	out := make([]Result, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Genres = make([]string, len(in[i].Genres))
		copy(out[i].Genres, in[i].Genres)
		out[i].MatchReasons = make([]ReasonView, len(in[i].MatchReasons))
		copy(out[i].MatchReasons, in[i].MatchReasons)
	}
	return out
}
