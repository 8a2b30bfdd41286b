// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	t.Run("base weights sum to 0.92", func(t *testing.T) {
		if sum := cfg.Scoring.Weights.Sum(); math.Abs(sum-0.92) > 1e-9 {
			t.Errorf("Weights.Sum() = %f, want 0.92", sum)
		}
	})

	t.Run("price brackets", func(t *testing.T) {
		d := cfg.Diversity
		if d.LowMax != 10 || d.MidMax != 30 {
			t.Errorf("brackets = %v/%v, want 10/30", d.LowMax, d.MidMax)
		}
		if d.LowQuota != 5 || d.MidQuota != 4 || d.HighQuota != 3 {
			t.Errorf("quotas = %d/%d/%d, want 5/4/3", d.LowQuota, d.MidQuota, d.HighQuota)
		}
		if d.GenreLambda != 1 {
			t.Errorf("GenreLambda = %v, want 1 (disabled)", d.GenreLambda)
		}
	})

	t.Run("limits", func(t *testing.T) {
		l := cfg.Limits
		if l.DefaultN != 15 || l.CandidateMultiplier != 6 || l.MaxPerDeveloper != 3 {
			t.Errorf("limits = %+v", l)
		}
	})

	t.Run("init retries", func(t *testing.T) {
		in := cfg.Init
		if in.RetryAttempts != 3 || in.RetryBackoff != 2*time.Second || in.Timeout != 300*time.Second {
			t.Errorf("init = %+v", in)
		}
	})

	t.Run("resolver threshold", func(t *testing.T) {
		if cfg.Resolver.Threshold != 0.70 {
			t.Errorf("Resolver.Threshold = %v, want 0.70", cfg.Resolver.Threshold)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative min popularity", func(c *Config) { c.Catalog.MinPopularity = -1 }},
		{"empty gameplay term", func(c *Config) { c.Features.Gameplay = append(c.Features.Gameplay, " ") }},
		{"alias without canonical", func(c *Config) {
			c.Features.DeveloperAliases = append(c.Features.DeveloperAliases, DeveloperAlias{Match: "x"})
		}},
		{"bad series pattern", func(c *Config) {
			c.Features.SeriesPatterns = append(c.Features.SeriesPatterns, SeriesPattern{Pattern: "(", Series: "X"})
		}},
		{"zero feature workers", func(c *Config) { c.Features.Workers = 0 }},
		{"zero components", func(c *Config) { c.Vectorizer.Components = 0 }},
		{"zero max features", func(c *Config) { c.Vectorizer.MaxFeatures = 0 }},
		{"zero min doc freq", func(c *Config) { c.Vectorizer.MinDocFreq = 0 }},
		{"negative oversample", func(c *Config) { c.Vectorizer.Oversample = -1 }},
		{"negative power iterations", func(c *Config) { c.Vectorizer.PowerIterations = -1 }},
		{"zero nlist", func(c *Config) { c.Index.NList = 0 }},
		{"zero nprobe", func(c *Config) { c.Index.NProbe = 0 }},
		{"zero kmeans iterations", func(c *Config) { c.Index.KMeansIterations = 0 }},
		{"threshold above one", func(c *Config) { c.Resolver.Threshold = 1.5 }},
		{"zero hash dimensions", func(c *Config) { c.Resolver.HashDimensions = 0 }},
		{"zero batch size", func(c *Config) { c.Resolver.BatchSize = 0 }},
		{"negative weight", func(c *Config) { c.Scoring.Weights.Tag = -0.1 }},
		{"negative bonus", func(c *Config) { c.Scoring.Bonuses.Series = -0.1 }},
		{"zero calibration", func(c *Config) { c.Scoring.Calibration = 0 }},
		{"floor above one", func(c *Config) { c.Scoring.EarlyRejectFloor = 1.1 }},
		{"unknown tag mode", func(c *Config) { c.Scoring.TagMode = "fancy" }},
		{"positive exclusion penalty", func(c *Config) { c.Scoring.ExclusionPenalty = 0.1 }},
		{"zero exclusion match", func(c *Config) { c.Scoring.MinExclusionMatch = 0 }},
		{"genre weight without genre", func(c *Config) {
			c.Scoring.GenreImportance = append(c.Scoring.GenreImportance, GenreWeight{Weight: 1})
		}},
		{"inverted brackets", func(c *Config) { c.Diversity.MidMax = 5 }},
		{"negative quota", func(c *Config) { c.Diversity.HighQuota = -1 }},
		{"genre lambda above one", func(c *Config) { c.Diversity.GenreLambda = 1.5 }},
		{"zero default n", func(c *Config) { c.Limits.DefaultN = 0 }},
		{"max n below default", func(c *Config) { c.Limits.MaxN = 5 }},
		{"zero developer cap", func(c *Config) { c.Limits.MaxPerDeveloper = 0 }},
		{"zero max seeds", func(c *Config) { c.Limits.MaxSeeds = 0 }},
		{"zero cache entries", func(c *Config) { c.Cache.MaxEntries = 0 }},
		{"zero retry attempts", func(c *Config) { c.Init.RetryAttempts = 0 }},
		{"negative backoff", func(c *Config) { c.Init.RetryBackoff = -time.Second }},
		{"zero timeout", func(c *Config) { c.Init.Timeout = 0 }},
		{"autocomplete max below default", func(c *Config) { c.Autocomplete.MaxLimit = 1 }},
		{"zero search multiplier", func(c *Config) { c.Autocomplete.SearchMultiplier = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Genres[0] = "changed"
	clone.Scoring.RareGenres[0] = "changed"
	clone.Features.DeveloperAliases[0].Canonical = "changed"
	clone.Scoring.GenreImportance[0].Weight = 99

	if cfg.Genres[0] == "changed" || cfg.Scoring.RareGenres[0] == "changed" {
		t.Error("Clone() shares string slices with the original")
	}
	if cfg.Features.DeveloperAliases[0].Canonical == "changed" {
		t.Error("Clone() shares developer aliases with the original")
	}
	if cfg.Scoring.GenreImportance[0].Weight == 99 {
		t.Error("Clone() shares genre importance with the original")
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Config
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := back.Validate(); err != nil {
		t.Errorf("round-tripped config invalid: %v", err)
	}
	if back.Init.Timeout != cfg.Init.Timeout || back.Scoring.TagMode != cfg.Scoring.TagMode {
		t.Errorf("round trip lost values: %+v", back.Init)
	}
}
