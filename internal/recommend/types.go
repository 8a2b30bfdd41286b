// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CatalogRecord is one catalog item as read from the catalog store.
// Records are immutable once loaded into an engine generation.
type CatalogRecord struct {
	// ID is the unique positive store identifier (Steam AppID).
	ID int64 `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// CleanName is the normalized lookup name (lower-case, non-word runes stripped).
	CleanName string `json:"clean_name"`

	// Genres is the raw comma-delimited genre list.
	Genres string `json:"genres"`

	Developer string `json:"developer"`
	Publisher string `json:"publisher"`

	// Price is the non-negative list price. Zero means free.
	Price float64 `json:"price"`

	// PopularityScore is the Bayesian-smoothed rating on a 0-100 scale.
	PopularityScore float64 `json:"popularity_score"`

	// Tags maps user tag names to vote weights.
	Tags map[string]float64 `json:"tags,omitempty"`

	ShortDescription    string `json:"short_description"`
	DetailedDescription string `json:"detailed_description,omitempty"`

	// ReleaseDate is the raw release date text; the first four characters
	// are the year when they are numeric.
	ReleaseDate string `json:"release_date"`

	// AveragePlaytime is the average playtime in minutes.
	AveragePlaytime int `json:"average_playtime"`

	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`

	// Categories is the raw comma-delimited store category list.
	Categories string `json:"categories"`

	HeaderImage string `json:"header_image"`
	StoreURL    string `json:"store_url"`
}

// GenreList splits the comma-delimited genre string into trimmed, de-duplicated
// genre names, preserving first occurrence order.
func (r *CatalogRecord) GenreList() []string {
	return splitList(r.Genres)
}

// CategoryList splits the comma-delimited category string.
func (r *CatalogRecord) CategoryList() []string {
	return splitList(r.Categories)
}

// Year returns the release year parsed from the first four characters of the
// release date. ok is false when they are missing or not numeric.
func (r *CatalogRecord) Year() (year int, ok bool) {
	if len(r.ReleaseDate) < 4 {
		return 0, false
	}
	prefix := r.ReleaseDate[:4]
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	y, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return y, true
}

// YearText returns the raw first four characters of the release date.
func (r *CatalogRecord) YearText() string {
	runes := []rune(r.ReleaseDate)
	if len(runes) <= 4 {
		return r.ReleaseDate
	}
	return string(runes[:4])
}

// PlaytimeHours converts the average playtime from minutes to hours.
func (r *CatalogRecord) PlaytimeHours() float64 {
	return float64(r.AveragePlaytime) / 60
}

// TagText joins the tag names in sorted order, separated by spaces.
func (r *CatalogRecord) TagText() string {
	if len(r.Tags) == 0 {
		return ""
	}
	names := make([]string, 0, len(r.Tags))
	for name := range r.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// splitList splits on commas, trims, and drops empty and duplicate entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// KeywordSet is a sorted, de-duplicated set of keywords.
type KeywordSet []string

// NewKeywordSet builds a set from the given terms.
func NewKeywordSet(terms ...string) KeywordSet {
	if len(terms) == 0 {
		return nil
	}
	out := make([]string, 0, len(terms))
	out = append(out, terms...)
	sort.Strings(out)
	j := 0
	for i := range out {
		if i > 0 && out[i] == out[j-1] {
			continue
		}
		out[j] = out[i]
		j++
	}
	return KeywordSet(out[:j])
}

// Contains reports whether term is in the set.
func (s KeywordSet) Contains(term string) bool {
	i := sort.SearchStrings(s, term)
	return i < len(s) && s[i] == term
}

// IntersectionSize counts the terms present in both sets.
func (s KeywordSet) IntersectionSize(other KeywordSet) int {
	i, j, n := 0, 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] == other[j]:
			n++
			i++
			j++
		case s[i] < other[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func (s KeywordSet) Jaccard(other KeywordSet) float64 {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	inter := s.IntersectionSize(other)
	union := len(s) + len(other) - inter
	return float64(inter) / float64(union)
}

// DerivedFeatures are computed once per record at load time.
type DerivedFeatures struct {
	// Developer is the canonical developer key, or the lower-cased raw
	// developer when no alias matches.
	Developer string `json:"developer"`

	// Series is the franchise tag, empty when the name matches no pattern.
	Series string `json:"series"`

	Gameplay KeywordSet `json:"gameplay"`
	Theme    KeywordSet `json:"theme"`
	Visual   KeywordSet `json:"visual"`
}

// Profile is the read-only per-record view used by scoring.
type Profile struct {
	// Position is the record's position in the generation's catalog order.
	Position int
	Record   *CatalogRecord
	Features DerivedFeatures
	Genres   []string
	Vector   []float32
}

// Neighbor is one similarity index hit.
type Neighbor struct {
	// Position is the record position in [0, index size).
	Position int

	// ID is the stable record identifier stored alongside the vector.
	ID int64

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// Contributions holds the weighted contribution of every scoring factor.
type Contributions struct {
	Genre       float64 `json:"genre"`
	Gameplay    float64 `json:"gameplay"`
	Theme       float64 `json:"theme"`
	Visual      float64 `json:"visual"`
	Price       float64 `json:"price"`
	Tag         float64 `json:"tag"`
	Developer   float64 `json:"developer"`
	Series      float64 `json:"series"`
	Vector      float64 `json:"vector"`
	VisualStyle float64 `json:"visual_style"`
	RareGenre   float64 `json:"rare_genre"`
	MultiSeed   float64 `json:"multi_seed"`
	Exclusion   float64 `json:"exclusion"`
}

// Breakdown is the percentage view of a candidate's similarity to the base.
type Breakdown struct {
	Genre      int `json:"genre"`
	Gameplay   int `json:"gameplay"`
	Theme      int `json:"theme"`
	Price      int `json:"price"`
	Visual     int `json:"visual"`
	Popularity int `json:"popularity"`

	// Excluded is the exclusion-genre overlap in percent when an exclusion
	// list was supplied and the candidate met the threshold.
	Excluded int `json:"excluded"`
}

// ScoreOptions carries the per-request inputs to scoring.
type ScoreOptions struct {
	Exclude   []string
	MultiSeed bool
}

// Scored is the outcome of scoring one candidate against the base.
type Scored struct {
	Score         float64
	Reasons       []MatchReason
	Contributions Contributions
	Breakdown     Breakdown
	Excluded      bool
}

// Filters are optional hard filters applied before scoring.
// Nil numeric fields are unset.
type Filters struct {
	Genres      []string `json:"genres,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
	YearMin     *int     `json:"year_min,omitempty"`
	YearMax     *int     `json:"year_max,omitempty"`
	PlaytimeMin *float64 `json:"playtime_min,omitempty"`
	PlaytimeMax *float64 `json:"playtime_max,omitempty"`
}

// Request is a recommendation request.
type Request struct {
	// Seeds are the seed names. Use ParseSeeds for "A+B" style input.
	Seeds []string

	// N is the number of results wanted. Zero selects the configured default.
	N int

	Filters Filters

	RequestID string
}

// ReasonView is the serialized form of a match reason.
type ReasonView struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Result is one recommended item.
type Result struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	ImageURL        string       `json:"image_url"`
	Genres          []string     `json:"genres"`
	Price           float64      `json:"price"`
	StoreURL        string       `json:"store_url"`
	Similarity      float64      `json:"similarity"`
	MatchReasons    []ReasonView `json:"match_reasons"`
	PrimaryMatch    int          `json:"primary_match"`
	Breakdown       Breakdown    `json:"breakdown"`
	Year            string       `json:"year"`
	Playtime        int          `json:"playtime"`
	PopularityScore float64      `json:"popularity_score"`
}

// Seed is a randomly picked seed item.
type Seed struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized means no build has been attempted.
	StateUninitialized State = iota
	// StateInitializing means the first build is running.
	StateInitializing
	// StateReady means a generation is serving.
	StateReady
	// StateFailed means initialization gave up.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the engine lifecycle.
type Status struct {
	State         State     `json:"-"`
	StateName     string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	Generation    uint64    `json:"generation"`
	Records       int       `json:"records"`
	IndexKind     string    `json:"index_kind,omitempty"`
	BuiltAt       time.Time `json:"built_at,omitempty"`
	BuildDuration int64     `json:"build_duration_ms"`
	Rebuilding    bool      `json:"rebuilding"`
}

// Stats are cumulative engine counters.
type Stats struct {
	Requests      int64 `json:"requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	EmptyNotReady int64 `json:"empty_not_ready"`
	Builds        int64 `json:"builds"`
	BuildErrors   int64 `json:"build_errors"`
}

// round4 rounds to four decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
