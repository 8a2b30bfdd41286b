// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package index

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tomtom215/gamescout/internal/recommend"
)

func unitVectors(n, dim int, seed uint64) ([]int64, [][]float32) {
	rng := rand.New(rand.NewPCG(seed, 1))
	ids := make([]int64, n)
	vectors := make([][]float32, n)
	for i := range vectors {
		v := make([]float32, dim)
		var norm float64
		for d := range v {
			x := rng.NormFloat64()
			v[d] = float32(x)
			norm += x * x
		}
		for d := range v {
			v[d] /= float32(math.Sqrt(norm))
		}
		ids[i] = int64(1000 + i)
		vectors[i] = v
	}
	return ids, vectors
}

func TestFlat_Search(t *testing.T) {
	t.Parallel()

	vectors := [][]float32{{0, 0}, {1, 0}, {0, 2}, {3, 0}}
	ids := []int64{10, 11, 12, 13}
	f := NewFlat(ids, vectors)

	tests := []struct {
		name  string
		query []float32
		k     int
		want  []int
	}{
		{"nearest first", []float32{0.9, 0}, 2, []int{1, 0}},
		{"k larger than corpus", []float32{0, 0}, 10, []int{0, 1, 2, 3}},
		{"ties by position", []float32{0.5, 0}, 2, []int{0, 1}},
		{"k zero", []float32{0, 0}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Search(tt.query, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("Search() returned %d neighbors, want %d", len(got), len(tt.want))
			}
			for i, n := range got {
				if n.Position != tt.want[i] {
					t.Errorf("neighbor %d position = %d, want %d", i, n.Position, tt.want[i])
				}
				if n.ID != ids[n.Position] {
					t.Errorf("neighbor %d id = %d, want %d", i, n.ID, ids[n.Position])
				}
			}
		})
	}
}

func TestFlat_DistancesAscending(t *testing.T) {
	t.Parallel()

	ids, vectors := unitVectors(300, 8, 3)
	got := NewFlat(ids, vectors).Search(vectors[7], 25)
	if got[0].Position != 7 || got[0].Distance != 0 {
		t.Errorf("first neighbor = %+v, want the query itself at distance 0", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Fatalf("distances not ascending at %d: %f < %f", i, got[i].Distance, got[i-1].Distance)
		}
	}
}

func TestIVF_FullProbeMatchesFlat(t *testing.T) {
	t.Parallel()

	ids, vectors := unitVectors(500, 8, 5)
	ivf, err := NewIVF(context.Background(), ids, vectors, 8, 8, 10, 42)
	if err != nil {
		t.Fatalf("NewIVF() error = %v", err)
	}
	flat := NewFlat(ids, vectors)

	for _, q := range []int{0, 17, 250, 499} {
		want := flat.Search(vectors[q], 10)
		got := ivf.Search(vectors[q], 10)
		if len(got) != len(want) {
			t.Fatalf("query %d: ivf returned %d, flat %d", q, len(got), len(want))
		}
		for i := range want {
			if got[i].Position != want[i].Position {
				t.Errorf("query %d rank %d: ivf %d, flat %d", q, i, got[i].Position, want[i].Position)
			}
		}
	}
}

func TestIVF_PartitionsCoverCorpus(t *testing.T) {
	t.Parallel()

	ids, vectors := unitVectors(400, 6, 9)
	ivf, err := NewIVF(context.Background(), ids, vectors, 10, 3, 15, 1)
	if err != nil {
		t.Fatalf("NewIVF() error = %v", err)
	}
	if ivf.NList() != 10 || ivf.NProbe() != 3 || ivf.Kind() != KindIVF || ivf.Len() != 400 {
		t.Errorf("ivf = nlist %d nprobe %d kind %s len %d", ivf.NList(), ivf.NProbe(), ivf.Kind(), ivf.Len())
	}
	seen := make(map[int]bool)
	for _, list := range ivf.lists {
		for _, p := range list {
			if seen[p] {
				t.Fatalf("position %d in two partitions", p)
			}
			seen[p] = true
		}
	}
	if len(seen) != 400 {
		t.Errorf("partitions hold %d vectors, want 400", len(seen))
	}

	// A vector always finds itself: its own partition is the nearest.
	got := ivf.Search(vectors[42], 1)
	if len(got) != 1 || got[0].Position != 42 {
		t.Errorf("Search(self) = %+v, want position 42", got)
	}
}

func TestIVF_Deterministic(t *testing.T) {
	t.Parallel()

	ids, vectors := unitVectors(300, 6, 2)
	a, err := NewIVF(context.Background(), ids, vectors, 6, 2, 10, 7)
	if err != nil {
		t.Fatalf("NewIVF() error = %v", err)
	}
	b, err := NewIVF(context.Background(), ids, vectors, 6, 2, 10, 7)
	if err != nil {
		t.Fatalf("NewIVF() error = %v", err)
	}
	for c := range a.centroids {
		for d := range a.centroids[c] {
			if a.centroids[c][d] != b.centroids[c][d] {
				t.Fatalf("centroid %d differs between builds", c)
			}
		}
	}
}

func TestBuilder_ChoosesKind(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig().Index
	cfg.MinSamples = 100

	tests := []struct {
		name      string
		n         int
		wantKind  string
		wantNList int
	}{
		{"small corpus is flat", 99, KindFlat, 0},
		{"nlist clamped by min points", 390, KindIVF, 10},
		{"nlist at least one", 100, KindIVF, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, vectors := unitVectors(tt.n, 4, 11)
			idx, err := NewBuilder(cfg, 42).Build(context.Background(), ids, vectors)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if idx.Kind() != tt.wantKind {
				t.Errorf("Kind() = %s, want %s", idx.Kind(), tt.wantKind)
			}
			if ivf, ok := idx.(*IVF); ok && ivf.NList() != tt.wantNList {
				t.Errorf("NList() = %d, want %d", ivf.NList(), tt.wantNList)
			}
			if idx.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", idx.Len(), tt.n)
			}
		})
	}
}

func TestBuilder_NList(t *testing.T) {
	t.Parallel()

	b := NewBuilder(recommend.DefaultConfig().Index, 1)
	tests := []struct {
		n, want int
	}{
		{10, 1},
		{390, 10},
		{3900, 100},
		{100000, 100},
	}
	for _, tt := range tests {
		if got := b.NList(tt.n); got != tt.want {
			t.Errorf("NList(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	b := NewBuilder(recommend.DefaultConfig().Index, 1)
	tests := []struct {
		name    string
		ids     []int64
		vectors [][]float32
	}{
		{"empty", nil, nil},
		{"length mismatch", []int64{1}, [][]float32{{1}, {2}}},
		{"zero dimensions", []int64{1}, [][]float32{{}}},
		{"ragged", []int64{1, 2}, [][]float32{{1, 0}, {1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Build(context.Background(), tt.ids, tt.vectors); err == nil {
				t.Error("Build() should fail")
			}
		})
	}
}

func TestBuilder_Canceled(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig().Index
	cfg.MinSamples = 10
	ids, vectors := unitVectors(500, 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBuilder(cfg, 1).Build(ctx, ids, vectors); err == nil {
		t.Error("Build() with canceled context should fail")
	}
}

func BenchmarkIVF_Search(b *testing.B) {
	ids, vectors := unitVectors(20000, 120, 1)
	ivf, err := NewIVF(context.Background(), ids, vectors, 100, 10, 10, 42)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ivf.Search(vectors[i%len(vectors)], 90)
	}
}
