// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gamescout/internal/recommend"
	"github.com/tomtom215/gamescout/internal/recommend/features"
	"github.com/tomtom215/gamescout/internal/recommend/index"
	"github.com/tomtom215/gamescout/internal/recommend/reranking"
	"github.com/tomtom215/gamescout/internal/recommend/resolver"
	"github.com/tomtom215/gamescout/internal/recommend/scoring"
	"github.com/tomtom215/gamescout/internal/recommend/vectorize"
)

// fakeCatalog serves a fixed record set. When gate is set, FetchCatalog
// signals entered and blocks until gate is closed.
type fakeCatalog struct {
	mu      sync.Mutex
	records []recommend.CatalogRecord
	err     error
	calls   atomic.Int32

	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (c *fakeCatalog) FetchCatalog(ctx context.Context, minPopularity float64) ([]recommend.CatalogRecord, error) {
	c.calls.Add(1)
	if c.gate != nil {
		c.once.Do(func() { close(c.entered) })
		select {
		case <-c.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]recommend.CatalogRecord, 0, len(c.records))
	for _, r := range c.records {
		if r.PopularityScore > minPopularity {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *fakeCatalog) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// memorySnapshots is an in-memory recommend.SnapshotStore.
type memorySnapshots struct {
	mu    sync.Mutex
	data  map[string][][]float32
	hits  int
	saves int
}

func (m *memorySnapshots) LoadVectors(_ context.Context, key string) ([][]float32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok, nil
}

func (m *memorySnapshots) SaveVectors(_ context.Context, key string, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][][]float32)
	}
	m.data[key] = vectors
	m.saves++
	return nil
}

type cluster struct {
	genres     string
	developers []string
	words      string
	tags       []string
	names      []string
}

var clusters = []cluster{
	{
		genres:     "Action, Shooter",
		developers: []string{"Nova Works", "Red Dwarf Games", "Ion Labs", "Pulsar Studio"},
		words:      "fps space sci-fi lasers aliens starship pixel art",
		tags:       []string{"FPS", "Sci-fi", "Space"},
		names: []string{
			"Nebula Strike", "Orbital Siege", "Star Blaster", "Void Raiders", "Comet Fury", "Laser Horizon",
			"Galaxy Outlaws", "Photon Storm", "Astro Assault", "Plasma Run", "Meteor Hunter", "Quasar Force",
		},
	},
	{
		genres:     "Simulation, Casual",
		developers: []string{"Barn Owl Studios"},
		words:      "farming crops cows management relaxing cartoon",
		tags:       []string{"Farming Sim", "Relaxing", "Cute"},
		names: []string{
			"Harvest Hollow", "Sunny Acres", "Meadow Farm", "Green Pastures", "Barnyard Days", "Orchard Valley",
			"Crop Circle Tales", "Tractor Town", "Seedling Story", "Golden Fields", "Windmill Farm", "Hay Day Rush",
		},
	},
	{
		genres:     "Horror, Adventure",
		developers: []string{"Grave Digital", "Hollow Eye", "Lantern Interactive"},
		words:      "horror survival zombies dark atmospheric first-person mystery",
		tags:       []string{"Horror", "Survival Horror", "Dark"},
		names: []string{
			"Dark Corridor", "Silent Manor", "Crypt Whisper", "Hollow Asylum", "Night Terrors", "Grim Lantern",
			"Shadow Ward", "Bone Chapel", "Creeping Fog", "Black Lake", "Dread Cellar", "Ghost Signal",
		},
	},
}

func testCatalog() []recommend.CatalogRecord {
	prices := []float64{4.99, 19.99, 39.99}
	var out []recommend.CatalogRecord
	id := int64(100)
	for _, c := range clusters {
		for i, name := range c.names {
			id++
			tags := make(map[string]float64, len(c.tags))
			for j, tag := range c.tags {
				tags[tag] = float64(100 - j*10)
			}
			out = append(out, recommend.CatalogRecord{
				ID:               id,
				Name:             name,
				Genres:           c.genres,
				Developer:        c.developers[i%len(c.developers)],
				Price:            prices[i%len(prices)],
				PopularityScore:  float64(60 + i*3),
				Tags:             tags,
				ShortDescription: fmt.Sprintf("%s: %s", name, c.words),
				ReleaseDate:      fmt.Sprintf("%d-06-01", 2010+i),
				AveragePlaytime:  (i + 1) * 120,
			})
		}
	}
	return out
}

func testConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Vectorizer.Components = 16
	cfg.Init.RetryAttempts = 1
	cfg.Init.RetryBackoff = 0
	return cfg
}

func newTestEngine(t *testing.T, cfg *recommend.Config, catalog recommend.CatalogSource, snapshots recommend.SnapshotStore) *recommend.Engine {
	t.Helper()
	extractor, err := features.New(cfg.Features)
	if err != nil {
		t.Fatalf("features.New() error = %v", err)
	}
	comps := recommend.Components{
		Catalog:    catalog,
		Features:   extractor,
		Vectorizer: vectorize.New(cfg.Vectorizer, cfg.Seed),
		Index:      index.NewBuilder(cfg.Index, cfg.Seed),
		Resolver:   resolver.NewBuilder(cfg.Resolver, nil),
		Scorer:     scoring.New(cfg.Scoring),
		Rerankers:  testRerankers(cfg),
	}
	if snapshots != nil {
		comps.Snapshots = snapshots
	}
	e, err := recommend.NewEngine(cfg, comps, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// testRerankers mirrors the server wiring: genre MMR when enabled, then the
// price quota.
func testRerankers(cfg *recommend.Config) []recommend.Reranker {
	var out []recommend.Reranker
	if cfg.Diversity.GenreLambda < 1 {
		out = append(out, reranking.NewMMR(cfg.Diversity.GenreLambda))
	}
	return append(out, reranking.NewPriceQuota(cfg.Diversity))
}

func initEngine(t *testing.T, cfg *recommend.Config) *recommend.Engine {
	t.Helper()
	e := newTestEngine(t, cfg, &fakeCatalog{records: testCatalog()}, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e
}

func readyEngine(t *testing.T) (*recommend.Engine, *fakeCatalog) {
	t.Helper()
	catalog := &fakeCatalog{records: testCatalog()}
	e := newTestEngine(t, testConfig(), catalog, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e, catalog
}

func hasGenre(r recommend.Result, genre string) bool {
	for _, g := range r.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

func TestNewEngine_RequiresComponents(t *testing.T) {
	t.Parallel()

	_, err := recommend.NewEngine(testConfig(), recommend.Components{}, zerolog.Nop())
	if err == nil {
		t.Error("NewEngine() without components should fail")
	}

	cfg := testConfig()
	cfg.Limits.DefaultN = 0
	if _, err := recommend.NewEngine(cfg, recommend.Components{}, zerolog.Nop()); err == nil {
		t.Error("NewEngine() with invalid config should fail")
	}
}

func TestNewEngine_WarnsOnWeightSum(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	extractor, err := features.New(cfg.Features)
	if err != nil {
		t.Fatalf("features.New() error = %v", err)
	}
	comps := recommend.Components{
		Catalog:    &fakeCatalog{},
		Features:   extractor,
		Vectorizer: vectorize.New(cfg.Vectorizer, cfg.Seed),
		Index:      index.NewBuilder(cfg.Index, cfg.Seed),
		Resolver:   resolver.NewBuilder(cfg.Resolver, nil),
		Scorer:     scoring.New(cfg.Scoring),
	}

	var buf bytes.Buffer
	if _, err := recommend.NewEngine(cfg, comps, zerolog.New(&buf).Level(zerolog.WarnLevel)); err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "do not sum to 1") {
		t.Errorf("default weights should log a warning, got %q", out)
	}
}

func TestEngine_NotReady(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, testConfig(), &fakeCatalog{records: testCatalog()}, nil)

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Nebula Strike"}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Recommend() before init = %v, want empty non-nil list", results)
	}
	if got := e.Autocomplete(context.Background(), "star", 5); len(got) != 0 {
		t.Errorf("Autocomplete() before init = %v", got)
	}
	if _, ok := e.RandomSeed(); ok {
		t.Error("RandomSeed() before init should report false")
	}
	if e.Ready() {
		t.Error("Ready() = true before init")
	}
	if st := e.Status(); st.State != recommend.StateUninitialized {
		t.Errorf("Status().State = %v, want uninitialized", st.State)
	}
	if got := e.Stats().EmptyNotReady; got != 1 {
		t.Errorf("Stats().EmptyNotReady = %d, want 1", got)
	}
}

func TestEngine_EmptyCatalog(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, testConfig(), &fakeCatalog{}, nil)

	err := e.Initialize(context.Background())
	if !errors.Is(err, recommend.ErrDataUnavailable) {
		t.Fatalf("Initialize() error = %v, want ErrDataUnavailable", err)
	}
	st := e.Status()
	if st.State != recommend.StateFailed || st.Error == "" {
		t.Errorf("Status() = %+v, want failed with error", st)
	}

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"anything"}})
	if err != nil || len(results) != 0 {
		t.Errorf("Recommend() after failed init = %v, %v", results, err)
	}
}

func TestEngine_Initialize_Idempotent(t *testing.T) {
	t.Parallel()
	e, catalog := readyEngine(t)

	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if got := catalog.calls.Load(); got != 1 {
		t.Errorf("catalog fetched %d times, want 1", got)
	}
	st := e.Status()
	if st.State != recommend.StateReady || st.Generation != 1 || st.Records != 36 || st.IndexKind != index.KindFlat {
		t.Errorf("Status() = %+v", st)
	}
}

func TestEngine_Recommend(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)
	cfg := e.GetConfig()

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Nebula Strike"}, N: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(results) == 0 || len(results) > 5 {
		t.Fatalf("Recommend() returned %d results, want 1..5", len(results))
	}
	if !hasGenre(results[0], "Shooter") {
		t.Errorf("top result %q is not a shooter", results[0].Name)
	}

	seen := make(map[int64]bool)
	devs := make(map[string]int)
	for i, r := range results {
		if r.Name == "Nebula Strike" {
			t.Error("seed item recommended")
		}
		if seen[r.ID] {
			t.Errorf("duplicate result %d", r.ID)
		}
		seen[r.ID] = true
		if i > 0 && r.Similarity > results[i-1].Similarity {
			t.Errorf("results not ordered by similarity at %d", i)
		}
		if r.Similarity < cfg.Scoring.MinSimilarity {
			t.Errorf("result %q similarity %v below minimum", r.Name, r.Similarity)
		}
		if len(r.MatchReasons) == 0 || r.PrimaryMatch != r.MatchReasons[0].Code {
			t.Errorf("result %q reasons = %v, primary = %d", r.Name, r.MatchReasons, r.PrimaryMatch)
		}
		if r.ImageURL != fmt.Sprintf("https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg", r.ID) {
			t.Errorf("result %q image = %q", r.Name, r.ImageURL)
		}
		rec, ok := e.Lookup(r.ID)
		if !ok {
			t.Fatalf("Lookup(%d) failed", r.ID)
		}
		devs[rec.Developer]++
	}
	for dev, n := range devs {
		if n > cfg.Limits.MaxPerDeveloper {
			t.Errorf("developer %q has %d results, cap is %d", dev, n, cfg.Limits.MaxPerDeveloper)
		}
	}
}

func TestEngine_Recommend_DeveloperCap(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Harvest Hollow"}, N: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	barnOwl := 0
	for _, r := range results {
		if rec, _ := e.Lookup(r.ID); rec.Developer == "Barn Owl Studios" {
			barnOwl++
		}
	}
	if barnOwl == 0 || barnOwl > 3 {
		t.Errorf("Barn Owl Studios results = %d, want 1..3", barnOwl)
	}
}

func TestEngine_Recommend_CacheAndSeedOrder(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)
	ctx := context.Background()

	first, err := e.Recommend(ctx, recommend.Request{Seeds: []string{"Nebula Strike", "Dark Corridor"}, N: 6})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(ctx, recommend.Request{Seeds: []string{"dark corridor", " NEBULA STRIKE"}, N: 6})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("seed order or case changed the results")
	}
	if st := e.Stats(); st.CacheHits != 1 || st.CacheMisses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", st)
	}

	for _, r := range first {
		if r.MatchReasons[0].Code != recommend.ReasonMultiGame.Code() {
			t.Errorf("multi-seed result %q first reason = %v", r.Name, r.MatchReasons[0])
		}
		if r.Name == "Nebula Strike" || r.Name == "Dark Corridor" {
			t.Errorf("seed %q recommended", r.Name)
		}
	}

	// Cached lists are copies.
	if len(second) > 0 {
		second[0].Genres[0] = "mutated"
		third, _ := e.Recommend(ctx, recommend.Request{Seeds: []string{"Nebula Strike", "Dark Corridor"}, N: 6})
		if third[0].Genres[0] == "mutated" {
			t.Error("cache returned a shared slice")
		}
	}
}

func TestEngine_Recommend_Unresolved(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"qqqq zzzz xxxx"}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Recommend() of unknown seed = %v, want empty list", results)
	}
	if got := e.Stats().CacheMisses; got != 1 {
		t.Errorf("CacheMisses = %d, want 1", got)
	}
}

func TestEngine_Recommend_Filters(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)
	ctx := context.Background()

	t.Run("genre filter", func(t *testing.T) {
		results, err := e.Recommend(ctx, recommend.Request{
			Seeds:   []string{"Nebula Strike"},
			Filters: recommend.Filters{Genres: []string{"shooter"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range results {
			if !hasGenre(r, "Shooter") {
				t.Errorf("result %q lacks filtered genre", r.Name)
			}
		}
	})

	t.Run("year filter", func(t *testing.T) {
		minYear := 2016
		results, err := e.Recommend(ctx, recommend.Request{
			Seeds:   []string{"Nebula Strike"},
			Filters: recommend.Filters{YearMin: &minYear},
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range results {
			if r.Year < "2016" {
				t.Errorf("result %q year %s before 2016", r.Name, r.Year)
			}
		}
	})

	t.Run("exclude marks shooters", func(t *testing.T) {
		results, err := e.Recommend(ctx, recommend.Request{
			Seeds:   []string{"Nebula Strike"},
			Filters: recommend.Filters{Exclude: []string{"Shooter"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range results {
			if !hasGenre(r, "Shooter") {
				continue
			}
			last := r.MatchReasons[len(r.MatchReasons)-1]
			if last.Code != recommend.ReasonExcluded.Code() || r.Breakdown.Excluded != 100 {
				t.Errorf("excluded-genre result %q reasons = %v, breakdown = %+v", r.Name, r.MatchReasons, r.Breakdown)
			}
		}
	})
}

func TestEngine_Autocomplete(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)

	got := e.Autocomplete(context.Background(), "Star", 5)
	if len(got) == 0 || len(got) > 5 {
		t.Fatalf("Autocomplete(star) = %v", got)
	}
	for _, name := range got {
		if !strings.Contains(strings.ToLower(name), "star") {
			t.Errorf("Autocomplete(star) returned %q", name)
		}
	}
	if got := e.Autocomplete(context.Background(), "   ", 5); len(got) != 0 {
		t.Errorf("Autocomplete(blank) = %v", got)
	}
}

func TestEngine_RandomSeed(t *testing.T) {
	t.Parallel()
	e, _ := readyEngine(t)

	for i := 0; i < 20; i++ {
		seed, ok := e.RandomSeed()
		if !ok {
			t.Fatal("RandomSeed() found no eligible item")
		}
		rec, found := e.Lookup(seed.ID)
		if !found || rec.Name != seed.Name {
			t.Fatalf("RandomSeed() = %+v, not in catalog", seed)
		}
		if rec.PopularityScore <= 75 || rec.Price <= 0 {
			t.Errorf("RandomSeed() picked %q with popularity %v price %v", rec.Name, rec.PopularityScore, rec.Price)
		}
	}
}

func TestEngine_Rebuild_FailureKeepsGeneration(t *testing.T) {
	t.Parallel()
	e, catalog := readyEngine(t)

	catalog.setErr(errors.New("database locked"))
	err := e.Rebuild(context.Background())
	if !errors.Is(err, recommend.ErrDataUnavailable) {
		t.Fatalf("Rebuild() error = %v, want ErrDataUnavailable", err)
	}

	st := e.Status()
	if !e.Ready() || st.State != recommend.StateReady || st.Generation != 1 || st.Error == "" {
		t.Errorf("Status() after failed rebuild = %+v", st)
	}
	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Nebula Strike"}})
	if err != nil || len(results) == 0 {
		t.Errorf("previous generation not serving: %v, %v", results, err)
	}

	catalog.setErr(nil)
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if st := e.Status(); st.Generation != 2 || st.Error != "" {
		t.Errorf("Status() after rebuild = %+v", st)
	}
}

func TestEngine_Rebuild_InProgress(t *testing.T) {
	t.Parallel()
	e, catalog := readyEngine(t)

	catalog.gate = make(chan struct{})
	catalog.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- e.Rebuild(context.Background()) }()

	<-catalog.entered
	if err := e.Rebuild(context.Background()); !errors.Is(err, recommend.ErrBuildInProgress) {
		t.Errorf("concurrent Rebuild() error = %v, want ErrBuildInProgress", err)
	}
	if !e.Status().Rebuilding {
		t.Error("Status().Rebuilding = false during rebuild")
	}
	close(catalog.gate)

	if err := <-done; err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if got := e.Status().Generation; got != 2 {
		t.Errorf("Generation = %d, want 2", got)
	}
}

func TestEngine_SnapshotReuse(t *testing.T) {
	t.Parallel()
	snaps := &memorySnapshots{}
	catalog := &fakeCatalog{records: testCatalog()}
	e := newTestEngine(t, testConfig(), catalog, snaps)

	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	before, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Silent Manor"}, N: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	after, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Silent Manor"}, N: 4})
	if err != nil {
		t.Fatal(err)
	}

	if snaps.saves != 1 || snaps.hits != 1 {
		t.Errorf("snapshot saves = %d, hits = %d; want 1, 1", snaps.saves, snaps.hits)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("results changed after rebuilding from a snapshot")
	}
}

func TestEngine_Deterministic(t *testing.T) {
	t.Parallel()
	a, _ := readyEngine(t)
	b, _ := readyEngine(t)
	req := recommend.Request{Seeds: []string{"Meadow Farm"}, N: 8}

	ra, err := a.Recommend(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := b.Recommend(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ra, rb) {
		t.Error("two engines over the same catalog disagree")
	}
}

func TestEngine_Recommend_GenreMMRKeepsPriceQuotaFill(t *testing.T) {
	t.Parallel()

	plain := initEngine(t, testConfig())
	mmrCfg := testConfig()
	mmrCfg.Diversity.GenreLambda = 0.5
	diverse := initEngine(t, mmrCfg)

	quota := reranking.NewPriceQuota(mmrCfg.Diversity)
	caps := map[string]int{
		reranking.BracketLow:  mmrCfg.Diversity.LowQuota,
		reranking.BracketMid:  mmrCfg.Diversity.MidQuota,
		reranking.BracketHigh: mmrCfg.Diversity.HighQuota,
	}

	for _, seed := range []string{"Nebula Strike", "Harvest Hollow", "Dark Corridor"} {
		req := recommend.Request{Seeds: []string{seed}, N: 10}
		want, err := plain.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend(%q) error = %v", seed, err)
		}
		got, err := diverse.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend(%q) with MMR error = %v", seed, err)
		}
		// Quota admission depends only on bracket counts, so reordering
		// must not shorten the list.
		if len(got) != len(want) {
			t.Errorf("%q: MMR returned %d results, price quota alone %d", seed, len(got), len(want))
		}
		counts := make(map[string]int)
		for i := range got {
			counts[quota.Bracket(got[i].Price)]++
		}
		for b, n := range counts {
			if n > caps[b] {
				t.Errorf("%q: bracket %s has %d results, quota is %d", seed, b, n, caps[b])
			}
		}
	}
}

func TestEngine_Recommend_IVFIndex(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Index.MinSamples = 10
	cfg.Index.MinPointsPerList = 9
	cfg.Index.NList = 4
	cfg.Index.NProbe = 2
	e := initEngine(t, cfg)

	if kind := e.Status().IndexKind; kind != index.KindIVF {
		t.Fatalf("Status().IndexKind = %q, want %q", kind, index.KindIVF)
	}

	results, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Nebula Strike"}, N: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(results) == 0 || len(results) > 5 {
		t.Fatalf("Recommend() returned %d results, want 1..5", len(results))
	}
	if !hasGenre(results[0], "Shooter") {
		t.Errorf("top result %q is not a shooter", results[0].Name)
	}
	for i, r := range results {
		if r.Name == "Nebula Strike" {
			t.Error("seed item recommended")
		}
		if i > 0 && r.Similarity > results[i-1].Similarity {
			t.Errorf("results not ordered by similarity at %d", i)
		}
	}

	multi, err := e.Recommend(context.Background(), recommend.Request{Seeds: []string{"Harvest Hollow", "Sunny Acres"}, N: 5})
	if err != nil {
		t.Fatalf("Recommend() multi-seed error = %v", err)
	}
	if len(multi) == 0 {
		t.Error("multi-seed Recommend() over IVF returned nothing")
	}
}
