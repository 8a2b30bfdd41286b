// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config contains all configuration for the recommendation engine.
// All tables are typed and validated once at construction; nothing here is
// mutated at runtime.
type Config struct {
	// Catalog contains catalog loading parameters.
	Catalog CatalogConfig `json:"catalog"`

	// Features contains the keyword vocabularies and lookup tables.
	Features FeatureConfig `json:"features"`

	// Vectorizer contains TF-IDF and SVD parameters.
	Vectorizer VectorizerConfig `json:"vectorizer"`

	// Index contains similarity index parameters.
	Index IndexConfig `json:"index"`

	// Resolver contains name resolution parameters.
	Resolver ResolverConfig `json:"resolver"`

	// Scoring contains weights, bonuses, and thresholds.
	Scoring ScoringConfig `json:"scoring"`

	// Diversity contains price bracket quotas.
	Diversity DiversityConfig `json:"diversity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result cache parameters.
	Cache CacheConfig `json:"cache"`

	// Init contains build retry parameters.
	Init InitConfig `json:"init"`

	// Autocomplete contains name suggestion parameters.
	Autocomplete AutocompleteConfig `json:"autocomplete"`

	// Surprise contains random seed selection parameters.
	Surprise SurpriseConfig `json:"surprise"`

	// Genres is the list of genres offered to clients for filtering.
	Genres []string `json:"genres"`

	// Seed is the random seed for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// CatalogConfig contains catalog loading parameters.
type CatalogConfig struct {
	// MinPopularity drops records at or below this popularity score.
	// Default: 8.
	MinPopularity float64 `json:"min_popularity"`

	// ContentBlacklist drops records whose name or short description contains
	// any of these terms (case-insensitive).
	ContentBlacklist []string `json:"content_blacklist"`
}

// DeveloperAlias maps a raw developer substring to a canonical name.
type DeveloperAlias struct {
	Match     string `json:"match"`
	Canonical string `json:"canonical"`
}

// SeriesPattern maps a name regex to a franchise tag.
type SeriesPattern struct {
	Pattern string `json:"pattern"`
	Series  string `json:"series"`
}

// FeatureConfig contains the keyword vocabularies and lookup tables.
type FeatureConfig struct {
	Gameplay []string `json:"gameplay"`
	Theme    []string `json:"theme"`
	Visual   []string `json:"visual"`

	// DeveloperAliases are tested in order; first substring match wins.
	DeveloperAliases []DeveloperAlias `json:"developer_aliases"`

	// SeriesPatterns are tested in order against the lower-cased name.
	SeriesPatterns []SeriesPattern `json:"series_patterns"`

	// Workers is the number of goroutines used for extraction.
	// Default: 4.
	Workers int `json:"workers"`
}

// VectorizerConfig contains TF-IDF and SVD parameters.
type VectorizerConfig struct {
	// Components is the reduced dimensionality.
	// Default: 120.
	Components int `json:"components"`

	// MaxFeatures caps the vocabulary size.
	// Default: 20000.
	MaxFeatures int `json:"max_features"`

	// MinDocFreq is the minimum number of documents a term must appear in.
	// Default: 2.
	MinDocFreq int `json:"min_doc_freq"`

	// Oversample is the extra random projection width.
	// Default: 10.
	Oversample int `json:"oversample"`

	// PowerIterations is the number of subspace iterations.
	// Default: 5.
	PowerIterations int `json:"power_iterations"`

	// Workers is the parallelism of the sparse-dense products.
	// Default: 4.
	Workers int `json:"workers"`
}

// IndexConfig contains similarity index parameters.
type IndexConfig struct {
	// NList is the number of inverted-file partitions.
	// Default: 100.
	NList int `json:"nlist"`

	// NProbe is the number of partitions scanned per query.
	// Default: 10.
	NProbe int `json:"nprobe"`

	// MinSamples is the corpus size below which an exact flat index is used.
	// Default: 1000.
	MinSamples int `json:"min_samples"`

	// MinPointsPerList bounds NList to n/MinPointsPerList.
	// Default: 39.
	MinPointsPerList int `json:"min_points_per_list"`

	// KMeansIterations is the number of Lloyd iterations.
	// Default: 25.
	KMeansIterations int `json:"kmeans_iterations"`
}

// ResolverConfig contains name resolution parameters.
type ResolverConfig struct {
	// Threshold is the cosine similarity a name match must exceed.
	// Default: 0.70.
	Threshold float64 `json:"threshold"`

	// HashDimensions is the width of the character n-gram hashing embedder.
	// Default: 256.
	HashDimensions int `json:"hash_dimensions"`

	// BatchSize is the number of names embedded per call at build time.
	// Default: 512.
	BatchSize int `json:"batch_size"`
}

// Weights are the base factor weights.
type Weights struct {
	Genre    float64 `json:"genre"`
	Gameplay float64 `json:"gameplay"`
	Theme    float64 `json:"theme"`
	Visual   float64 `json:"visual"`
	Price    float64 `json:"price"`
	Tag      float64 `json:"tag"`

	// Vector is the weight of the calibrated vector similarity.
	Vector float64 `json:"vector"`
}

// Sum returns the sum of the base categorical weights, excluding Vector.
func (w Weights) Sum() float64 {
	return w.Genre + w.Gameplay + w.Theme + w.Visual + w.Price + w.Tag
}

// Bonuses are additive score bonuses.
type Bonuses struct {
	Developer   float64 `json:"developer"`
	Series      float64 `json:"series"`
	VisualStyle float64 `json:"visual_style"`
	RareGenre   float64 `json:"rare_genre"`
	MultiSeed   float64 `json:"multi_seed"`
}

// GenreWeight is the importance of one genre in weighted Jaccard.
type GenreWeight struct {
	Genre  string  `json:"genre"`
	Weight float64 `json:"weight"`
}

// Tag similarity modes.
const (
	// TagModeConstant uses the fixed TagPlaceholder similarity.
	TagModeConstant = "constant"
	// TagModeWeighted uses the overlap of tag vote weights.
	TagModeWeighted = "weighted"
)

// ScoringConfig contains weights, bonuses, and thresholds.
type ScoringConfig struct {
	Weights Weights `json:"weights"`
	Bonuses Bonuses `json:"bonuses"`

	// Calibration converts index distance to similarity:
	// max(0, 1 - sqrt(d)/Calibration).
	// Default: 1.35.
	Calibration float64 `json:"calibration"`

	// EarlyRejectFloor is the vector similarity below which a candidate with
	// no genre overlap and no rare base genre is rejected.
	// Default: 0.45.
	EarlyRejectFloor float64 `json:"early_reject_floor"`

	// MinSimilarity is the minimum composite score.
	// Default: 0.12.
	MinSimilarity float64 `json:"min_similarity"`

	// ReasonThreshold is the similarity a factor must exceed to be a reason.
	// Default: 0.3.
	ReasonThreshold float64 `json:"reason_threshold"`

	// TagMode selects the tag similarity mode.
	// Default: "constant".
	TagMode string `json:"tag_mode"`

	// TagPlaceholder is the tag similarity used in constant mode.
	// Default: 0.15.
	TagPlaceholder float64 `json:"tag_placeholder"`

	// ExclusionPenalty is added to the score of excluded candidates.
	// Default: -0.15.
	ExclusionPenalty float64 `json:"exclusion_penalty"`

	// MinExclusionMatch is the exclusion overlap ratio that triggers the penalty.
	// Default: 0.40.
	MinExclusionMatch float64 `json:"min_exclusion_match"`

	// ExclusionCutoff rejects penalized candidates at or below this score.
	// Default: 0.10.
	ExclusionCutoff float64 `json:"exclusion_cutoff"`

	// GenreImportance weights genres in weighted Jaccard. Unlisted genres weigh 1.
	GenreImportance []GenreWeight `json:"genre_importance"`

	// RareGenres grant the rare-genre bonus when present on the base.
	RareGenres []string `json:"rare_genres"`

	// StyleTerms are matched in name and short description for the
	// visual-style bonus.
	StyleTerms []string `json:"style_terms"`
}

// DiversityConfig contains price bracket quotas.
type DiversityConfig struct {
	// LowMax is the exclusive upper price bound of the low bracket.
	// Default: 10.
	LowMax float64 `json:"low_max"`

	// MidMax is the exclusive upper price bound of the mid bracket.
	// Default: 30.
	MidMax float64 `json:"mid_max"`

	// LowQuota, MidQuota, and HighQuota cap admitted items per bracket.
	// Defaults: 5, 4, 3.
	LowQuota  int `json:"low_quota"`
	MidQuota  int `json:"mid_quota"`
	HighQuota int `json:"high_quota"`

	// GenreLambda enables genre MMR reranking ahead of the price quotas
	// when below 1. Lower values favor genre variety over similarity.
	// Default: 1 (disabled).
	GenreLambda float64 `json:"genre_lambda"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is the result count when a request does not set one.
	// Default: 15.
	DefaultN int `json:"default_n"`

	// MaxN is the maximum allowed result count.
	// Default: 100.
	MaxN int `json:"max_n"`

	// CandidateMultiplier sizes the neighbor search at n times this value.
	// Default: 6.
	CandidateMultiplier int `json:"candidate_multiplier"`

	// MaxPerDeveloper caps results sharing a developer key.
	// Default: 3.
	MaxPerDeveloper int `json:"max_per_developer"`

	// MaxSeeds caps the number of seed names per request.
	// Default: 10.
	MaxSeeds int `json:"max_seeds"`
}

// CacheConfig contains result cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// MaxEntries is the maximum number of cached entries per generation.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// InitConfig contains build retry parameters.
type InitConfig struct {
	// RetryAttempts is the number of build attempts.
	// Default: 3.
	RetryAttempts int `json:"retry_attempts"`

	// RetryBackoff is the delay before the second attempt; it doubles after.
	// Default: 2s.
	RetryBackoff time.Duration `json:"retry_backoff"`

	// Timeout bounds a single build attempt.
	// Default: 300s.
	Timeout time.Duration `json:"timeout"`
}

// AutocompleteConfig contains name suggestion parameters.
type AutocompleteConfig struct {
	// DefaultLimit is used when the caller passes no limit.
	// Default: 5.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the caller's limit.
	// Default: 50.
	MaxLimit int `json:"max_limit"`

	// SearchMultiplier sizes the name index search at limit times this value.
	// Default: 3.
	SearchMultiplier int `json:"search_multiplier"`

	// PrefixFallback fills remaining slots from a title prefix trie.
	// Default: true.
	PrefixFallback bool `json:"prefix_fallback"`
}

// SurpriseConfig contains random seed selection parameters.
type SurpriseConfig struct {
	// MinPopularity is the exclusive popularity floor.
	// Default: 75.
	MinPopularity float64 `json:"min_popularity"`

	// RequirePaid excludes free items.
	// Default: true.
	RequirePaid bool `json:"require_paid"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			MinPopularity: 8,
			ContentBlacklist: []string{
				"hitler", "nazi", "racist", "sexist", "hate speech",
				"adolf", "supremacist", "hentai", "explicit", "nsfw", "porn",
			},
		},
		Features: FeatureConfig{
			Gameplay: []string{
				"open world", "turn-based", "fps", "rpg", "co-op", "multiplayer", "survival",
				"roguelike", "battle royale", "sandbox", "stealth", "crafting", "physics",
				"hack and slash", "point and click", "real-time strategy", "tower defense",
				"puzzle", "visual novel", "card game", "deckbuilding", "rhythm", "management",
				"base building", "exploration", "parkour", "permadeath", "looter shooter",
			},
			Theme: []string{
				"fantasy", "sci-fi", "horror", "cyberpunk", "medieval", "post-apocalyptic",
				"anime", "mystery", "war", "space", "zombies", "detective", "funny",
				"dystopian", "lovecraftian", "western", "pirates", "vampire", "noir",
				"mythology", "superhero", "historical", "military", "futuristic",
			},
			Visual: []string{
				"pixel art", "voxel", "low poly", "realistic", "anime", "cartoon",
				"hand-drawn", "isometric", "top-down", "first-person", "third-person",
				"2d", "3d", "vr", "retro", "minimalist", "noir", "colorful", "dark",
				"atmospheric", "stylized", "cinematic", "text-based",
			},
			DeveloperAliases: []DeveloperAlias{
				{"cd projekt", "CD Projekt Red"},
				{"ubisoft", "Ubisoft"},
				{"electronic arts", "EA"},
				{"valve", "Valve"},
				{"bethesda", "Bethesda"},
				{"rockstar", "Rockstar"},
				{"naughty dog", "Naughty Dog"},
				{"fromsoftware", "FromSoftware"},
				{"capcom", "Capcom"},
				{"square enix", "Square Enix"},
				{"nintendo", "Nintendo"},
				{"sega", "Sega"},
				{"bioware", "BioWare"},
				{"blizzard", "Blizzard"},
				{"obsidian", "Obsidian"},
				{"bandai namco", "Bandai Namco"},
				{"activision", "Activision"},
				{"2k", "2K Games"},
				{"paradox", "Paradox Interactive"},
				{"devolver", "Devolver Digital"},
				{"re-logic", "Re-Logic"},
				{"concernedape", "ConcernedApe"},
			},
			SeriesPatterns: []SeriesPattern{
				{`witcher`, "The Witcher"},
				{`assassin.?s creed`, "Assassin's Creed"},
				{`dark souls|elden ring`, "Souls"},
				{`elder scrolls|skyrim`, "The Elder Scrolls"},
				{`gta|grand theft auto`, "GTA"},
				{`call of duty`, "CoD"},
				{`final fantasy`, "Final Fantasy"},
				{`resident evil`, "Resident Evil"},
				{`god of war`, "God of War"},
				{`persona`, "Persona"},
				{`yakuza`, "Yakuza"},
				{`mass effect`, "Mass Effect"},
				{`fallout`, "Fallout"},
				{`civilization`, "Civilization"},
				{`borderlands`, "Borderlands"},
				{`bioshock`, "BioShock"},
				{`far cry`, "Far Cry"},
				{`tomb raider`, "Tomb Raider"},
				{`hitman`, "Hitman"},
				{`doom`, "Doom"},
				{`terraria`, "Terraria"},
				{`stardew valley`, "Stardew Valley"},
			},
			Workers: 4,
		},
		Vectorizer: VectorizerConfig{
			Components:      120,
			MaxFeatures:     20000,
			MinDocFreq:      2,
			Oversample:      10,
			PowerIterations: 5,
			Workers:         4,
		},
		Index: IndexConfig{
			NList:            100,
			NProbe:           10,
			MinSamples:       1000,
			MinPointsPerList: 39,
			KMeansIterations: 25,
		},
		Resolver: ResolverConfig{
			Threshold:      0.70,
			HashDimensions: 256,
			BatchSize:      512,
		},
		Scoring: ScoringConfig{
			Weights: Weights{
				Genre:    0.20,
				Gameplay: 0.18,
				Theme:    0.16,
				Visual:   0.14,
				Price:    0.08,
				Tag:      0.16,
				Vector:   0.40,
			},
			Bonuses: Bonuses{
				Developer:   0.07,
				Series:      0.08,
				VisualStyle: 0.05,
				RareGenre:   0.06,
				MultiSeed:   0.05,
			},
			Calibration:       1.35,
			EarlyRejectFloor:  0.45,
			MinSimilarity:     0.12,
			ReasonThreshold:   0.3,
			TagMode:           TagModeConstant,
			TagPlaceholder:    0.15,
			ExclusionPenalty:  -0.15,
			MinExclusionMatch: 0.40,
			ExclusionCutoff:   0.10,
			GenreImportance: []GenreWeight{
				{"RPG", 4.5}, {"Action-RPG", 4.8}, {"Adventure", 4.2}, {"Story Rich", 4.6},
				{"Visual Novel", 4.3}, {"Simulation", 3.8}, {"Strategy", 3.7}, {"Indie", 3.6},
				{"Horror", 3.9}, {"Roguelike", 4.2}, {"Metroidvania", 4.1}, {"Open World", 4.0},
				{"FPS", 3.8}, {"Platformer", 3.5}, {"Multiplayer", 3.2}, {"Co-op", 3.4},
			},
			RareGenres: []string{
				"Visual Novel", "Psychological Horror", "Walking Simulator",
				"Interactive Fiction", "Metroidvania", "Roguelike", "Bullet Hell",
				"Text-Based", "Rhythm", "Music", "Educational", "VR", "Soulslike",
				"Immersive Sim", "Grand Strategy", "4X", "Analog Horror", "Steampunk",
				"Rich Story",
			},
			StyleTerms: []string{
				"pixel art", "retro", "realistic", "cartoon", "anime",
				"hand-drawn", "low poly", "isometric", "first-person", "third-person",
			},
		},
		Diversity: DiversityConfig{
			LowMax:      10,
			MidMax:      30,
			LowQuota:    5,
			MidQuota:    4,
			HighQuota:   3,
			GenreLambda: 1,
		},
		Limits: LimitsConfig{
			DefaultN:            15,
			MaxN:                100,
			CandidateMultiplier: 6,
			MaxPerDeveloper:     3,
			MaxSeeds:            10,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 10000,
		},
		Init: InitConfig{
			RetryAttempts: 3,
			RetryBackoff:  2 * time.Second,
			Timeout:       300 * time.Second,
		},
		Autocomplete: AutocompleteConfig{
			DefaultLimit:     5,
			MaxLimit:         50,
			SearchMultiplier: 3,
			PrefixFallback:   true,
		},
		Surprise: SurpriseConfig{
			MinPopularity: 75,
			RequirePaid:   true,
		},
		Genres: []string{
			"Action", "Adventure", "RPG", "Strategy", "Simulation", "Sports", "Racing",
			"Indie", "Casual", "Puzzle", "Horror", "Platformer", "Shooter", "Fighting",
			"Visual Novel", "Roguelike", "Metroidvania", "Open World", "Sandbox",
			"Survival", "Battle Royale", "MOBA", "MMO", "Card Game", "Board Game",
			"Educational", "VR", "Anime", "Fantasy", "Sci-Fi", "Cyberpunk", "Steampunk",
			"Post-apocalyptic", "Medieval", "Historical", "Space", "Zombies", "Mystery",
			"Detective", "Thriller", "Comedy", "Drama", "Romance", "War", "Western",
			"Superhero", "Mythology", "Pixel Art", "Low Poly", "Realistic", "2D", "3D",
			"Retro", "Memes", "Rich Story", "Funny", "Important Choices",
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Catalog.MinPopularity < 0 {
		return fmt.Errorf("catalog.min_popularity must be non-negative, got %f", c.Catalog.MinPopularity)
	}

	if err := validateTerms("features.gameplay", c.Features.Gameplay); err != nil {
		return err
	}
	if err := validateTerms("features.theme", c.Features.Theme); err != nil {
		return err
	}
	if err := validateTerms("features.visual", c.Features.Visual); err != nil {
		return err
	}
	for i, a := range c.Features.DeveloperAliases {
		if strings.TrimSpace(a.Match) == "" || a.Canonical == "" {
			return fmt.Errorf("features.developer_aliases[%d] must have match and canonical", i)
		}
	}
	for i, p := range c.Features.SeriesPatterns {
		if p.Series == "" {
			return fmt.Errorf("features.series_patterns[%d] must name a series", i)
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("features.series_patterns[%d]: %w", i, err)
		}
	}
	if c.Features.Workers < 1 {
		return fmt.Errorf("features.workers must be positive, got %d", c.Features.Workers)
	}

	if c.Vectorizer.Components < 1 {
		return fmt.Errorf("vectorizer.components must be positive, got %d", c.Vectorizer.Components)
	}
	if c.Vectorizer.MaxFeatures < 1 {
		return fmt.Errorf("vectorizer.max_features must be positive, got %d", c.Vectorizer.MaxFeatures)
	}
	if c.Vectorizer.MinDocFreq < 1 {
		return fmt.Errorf("vectorizer.min_doc_freq must be positive, got %d", c.Vectorizer.MinDocFreq)
	}
	if c.Vectorizer.Oversample < 0 {
		return fmt.Errorf("vectorizer.oversample must be non-negative, got %d", c.Vectorizer.Oversample)
	}
	if c.Vectorizer.PowerIterations < 0 {
		return fmt.Errorf("vectorizer.power_iterations must be non-negative, got %d", c.Vectorizer.PowerIterations)
	}
	if c.Vectorizer.Workers < 1 {
		return fmt.Errorf("vectorizer.workers must be positive, got %d", c.Vectorizer.Workers)
	}

	if c.Index.NList < 1 {
		return fmt.Errorf("index.nlist must be positive, got %d", c.Index.NList)
	}
	if c.Index.NProbe < 1 {
		return fmt.Errorf("index.nprobe must be positive, got %d", c.Index.NProbe)
	}
	if c.Index.MinSamples < 1 {
		return fmt.Errorf("index.min_samples must be positive, got %d", c.Index.MinSamples)
	}
	if c.Index.MinPointsPerList < 1 {
		return fmt.Errorf("index.min_points_per_list must be positive, got %d", c.Index.MinPointsPerList)
	}
	if c.Index.KMeansIterations < 1 {
		return fmt.Errorf("index.kmeans_iterations must be positive, got %d", c.Index.KMeansIterations)
	}

	if c.Resolver.Threshold < -1 || c.Resolver.Threshold > 1 {
		return fmt.Errorf("resolver.threshold must be in [-1, 1], got %f", c.Resolver.Threshold)
	}
	if c.Resolver.HashDimensions < 1 {
		return fmt.Errorf("resolver.hash_dimensions must be positive, got %d", c.Resolver.HashDimensions)
	}
	if c.Resolver.BatchSize < 1 {
		return fmt.Errorf("resolver.batch_size must be positive, got %d", c.Resolver.BatchSize)
	}

	if err := c.Scoring.validate(); err != nil {
		return err
	}

	if c.Diversity.LowMax <= 0 || c.Diversity.MidMax <= c.Diversity.LowMax {
		return fmt.Errorf("diversity brackets must satisfy 0 < low_max < mid_max, got %f, %f",
			c.Diversity.LowMax, c.Diversity.MidMax)
	}
	if c.Diversity.LowQuota < 0 || c.Diversity.MidQuota < 0 || c.Diversity.HighQuota < 0 {
		return fmt.Errorf("diversity quotas must be non-negative")
	}
	if c.Diversity.GenreLambda < 0 || c.Diversity.GenreLambda > 1 {
		return fmt.Errorf("diversity.genre_lambda must be in [0, 1], got %f", c.Diversity.GenreLambda)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Limits.CandidateMultiplier < 1 {
		return fmt.Errorf("limits.candidate_multiplier must be positive, got %d", c.Limits.CandidateMultiplier)
	}
	if c.Limits.MaxPerDeveloper < 1 {
		return fmt.Errorf("limits.max_per_developer must be positive, got %d", c.Limits.MaxPerDeveloper)
	}
	if c.Limits.MaxSeeds < 1 {
		return fmt.Errorf("limits.max_seeds must be positive, got %d", c.Limits.MaxSeeds)
	}

	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}

	if c.Init.RetryAttempts < 1 {
		return fmt.Errorf("init.retry_attempts must be positive, got %d", c.Init.RetryAttempts)
	}
	if c.Init.RetryBackoff < 0 {
		return fmt.Errorf("init.retry_backoff must be non-negative, got %v", c.Init.RetryBackoff)
	}
	if c.Init.Timeout <= 0 {
		return fmt.Errorf("init.timeout must be positive, got %v", c.Init.Timeout)
	}

	if c.Autocomplete.DefaultLimit < 1 {
		return fmt.Errorf("autocomplete.default_limit must be positive, got %d", c.Autocomplete.DefaultLimit)
	}
	if c.Autocomplete.MaxLimit < c.Autocomplete.DefaultLimit {
		return fmt.Errorf("autocomplete.max_limit must be >= autocomplete.default_limit")
	}
	if c.Autocomplete.SearchMultiplier < 1 {
		return fmt.Errorf("autocomplete.search_multiplier must be positive, got %d", c.Autocomplete.SearchMultiplier)
	}

	return nil
}

func (s *ScoringConfig) validate() error {
	w := s.Weights
	for name, v := range map[string]float64{
		"genre": w.Genre, "gameplay": w.Gameplay, "theme": w.Theme,
		"visual": w.Visual, "price": w.Price, "tag": w.Tag, "vector": w.Vector,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.weights.%s must be non-negative, got %f", name, v)
		}
	}
	b := s.Bonuses
	if b.Developer < 0 || b.Series < 0 || b.VisualStyle < 0 || b.RareGenre < 0 || b.MultiSeed < 0 {
		return fmt.Errorf("scoring.bonuses must be non-negative")
	}
	if s.Calibration <= 0 {
		return fmt.Errorf("scoring.calibration must be positive, got %f", s.Calibration)
	}
	if s.EarlyRejectFloor < 0 || s.EarlyRejectFloor > 1 {
		return fmt.Errorf("scoring.early_reject_floor must be in [0, 1], got %f", s.EarlyRejectFloor)
	}
	if s.MinSimilarity < 0 {
		return fmt.Errorf("scoring.min_similarity must be non-negative, got %f", s.MinSimilarity)
	}
	if s.ReasonThreshold < 0 || s.ReasonThreshold > 1 {
		return fmt.Errorf("scoring.reason_threshold must be in [0, 1], got %f", s.ReasonThreshold)
	}
	if s.TagMode != TagModeConstant && s.TagMode != TagModeWeighted {
		return fmt.Errorf("scoring.tag_mode must be %q or %q, got %q", TagModeConstant, TagModeWeighted, s.TagMode)
	}
	if s.TagPlaceholder < 0 || s.TagPlaceholder > 1 {
		return fmt.Errorf("scoring.tag_placeholder must be in [0, 1], got %f", s.TagPlaceholder)
	}
	if s.ExclusionPenalty > 0 {
		return fmt.Errorf("scoring.exclusion_penalty must be non-positive, got %f", s.ExclusionPenalty)
	}
	if s.MinExclusionMatch <= 0 || s.MinExclusionMatch > 1 {
		return fmt.Errorf("scoring.min_exclusion_match must be in (0, 1], got %f", s.MinExclusionMatch)
	}
	for i, g := range s.GenreImportance {
		if g.Genre == "" || g.Weight <= 0 {
			return fmt.Errorf("scoring.genre_importance[%d] must have a genre and positive weight", i)
		}
	}
	return nil
}

func validateTerms(field string, terms []string) error {
	for i, t := range terms {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%s[%d] must not be empty", field, i)
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Catalog.ContentBlacklist = cloneStrings(c.Catalog.ContentBlacklist)
	out.Features.Gameplay = cloneStrings(c.Features.Gameplay)
	out.Features.Theme = cloneStrings(c.Features.Theme)
	out.Features.Visual = cloneStrings(c.Features.Visual)
	out.Features.DeveloperAliases = append([]DeveloperAlias(nil), c.Features.DeveloperAliases...)
	out.Features.SeriesPatterns = append([]SeriesPattern(nil), c.Features.SeriesPatterns...)
	out.Scoring.GenreImportance = append([]GenreWeight(nil), c.Scoring.GenreImportance...)
	out.Scoring.RareGenres = cloneStrings(c.Scoring.RareGenres)
	out.Scoring.StyleTerms = cloneStrings(c.Scoring.StyleTerms)
	out.Genres = cloneStrings(c.Genres)
	return &out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
