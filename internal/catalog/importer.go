// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gamescout/internal/logging"
)

// Popularity smoothing constants.
const (
	bayesianPriorWeight = 15
	bayesianPriorMean   = 0.6
	wilsonZ             = 1.96
	smallSampleReviews  = 10
)

// Field length caps applied at ingest.
const (
	maxNameLen        = 200
	maxCleanNameLen   = 150
	maxListLen        = 500
	maxCompanyLen     = 200
	maxShortDescLen   = 1000
	maxDetailedLen    = 5000
	maxReleaseDateLen = 10
)

// DefaultBatchSize is the number of games upserted per transaction.
const DefaultBatchSize = 1000

// GameWriter persists batches of games.
type GameWriter interface {
	UpsertGames(ctx context.Context, games []Game) (int, error)
}

// ImportStats summarizes an import.
type ImportStats struct {
	Read     int `json:"read"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer loads the Steam games dataset into a GameWriter.
type Importer struct {
	writer    GameWriter
	batchSize int
	logger    zerolog.Logger
}

// NewImporter creates an importer. batchSize <= 0 uses DefaultBatchSize.
func NewImporter(w GameWriter, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		writer:    w,
		batchSize: batchSize,
		logger:    logging.WithComponent("importer"),
	}
}

// steamGame is one dataset entry. Numeric fields tolerate strings.
type steamGame struct {
	Name                string          `json:"name"`
	ReleaseDate         json.RawMessage `json:"release_date"`
	Price               flexFloat       `json:"price"`
	DetailedDescription string          `json:"detailed_description"`
	ShortDescription    string          `json:"short_description"`
	HeaderImage         string          `json:"header_image"`
	Windows             bool            `json:"windows"`
	Mac                 bool            `json:"mac"`
	Linux               bool            `json:"linux"`
	Developers          []string        `json:"developers"`
	Publishers          []string        `json:"publishers"`
	Categories          []string        `json:"categories"`
	Genres              []string        `json:"genres"`
	Positive            flexFloat       `json:"positive"`
	Negative            flexFloat       `json:"negative"`
	AveragePlaytime     flexFloat       `json:"average_playtime_forever"`
	Tags                json.RawMessage `json:"tags"`
}

// Import reads r and writes every valid game. Entries without a name or
// genres, or with a non-positive AppID, are skipped. Lines that fail to
// parse are skipped in line-delimited input.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	var stats ImportStats
	batch := make([]Game, 0, im.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := im.writer.UpsertGames(ctx, batch)
		if err != nil {
			return err
		}
		stats.Imported += n
		im.logger.Debug().Int("imported", stats.Imported).Msg("Import batch written")
		batch = batch[:0]
		return nil
	}

	handle := func(key string, raw json.RawMessage) error {
		stats.Read++
		game, ok := convertEntry(key, raw)
		if !ok {
			stats.Skipped++
			return nil
		}
		batch = append(batch, game)
		if len(batch) >= im.batchSize {
			return flush()
		}
		return nil
	}

	lineDelimited, err := isLineDelimited(br)
	if err != nil {
		return stats, err
	}

	if lineDelimited {
		err = readLines(ctx, br, handle, &stats)
	} else {
		err = readObject(ctx, br, handle)
	}
	if err != nil {
		return stats, err
	}
	if err := flush(); err != nil {
		return stats, err
	}

	im.logger.Info().
		Int("read", stats.Read).
		Int("imported", stats.Imported).
		Int("skipped", stats.Skipped).
		Msg("Catalog import complete")
	return stats, nil
}

// isLineDelimited reports whether the first line holds a complete JSON
// object, as in {"<appid>": {...}} per line.
func isLineDelimited(br *bufio.Reader) (bool, error) {
	peek, err := br.Peek(br.Size())
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read dataset: %w", err)
	}
	i := bytes.IndexByte(peek, '\n')
	if i < 0 {
		// A single line: valid JSON either way, unless it exceeds the buffer.
		return len(peek) < br.Size(), nil
	}
	return json.Valid(bytes.TrimSpace(peek[:i])), nil
}

func readLines(ctx context.Context, br *bufio.Reader, handle func(string, json.RawMessage) error, stats *ImportStats) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := br.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var entries map[string]json.RawMessage
			if jerr := json.Unmarshal(trimmed, &entries); jerr != nil {
				stats.Read++
				stats.Skipped++
			} else if herr := handleSorted(entries, handle); herr != nil {
				return herr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
	}
}

// readObject decodes a single {"<appid>": {...}, ...} object. The whole
// object is held in memory; large datasets should be line-delimited.
func readObject(ctx context.Context, r io.Reader, handle func(string, json.RawMessage) error) error {
	var entries map[string]json.RawMessage
	if err := json.NewDecoder(r).DecodeContext(ctx, &entries); err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	return handleSorted(entries, handle)
}

// handleSorted visits entries in key order.
func handleSorted(entries map[string]json.RawMessage, handle func(string, json.RawMessage) error) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := handle(k, entries[k]); err != nil {
			return err
		}
	}
	return nil
}

// convertEntry turns one dataset entry into a Game.
func convertEntry(key string, raw json.RawMessage) (Game, bool) {
	appID, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || appID <= 0 {
		return Game{}, false
	}
	var sg steamGame
	if err := json.Unmarshal(raw, &sg); err != nil {
		return Game{}, false
	}
	genres := joinList(sg.Genres, maxListLen)
	if strings.TrimSpace(sg.Name) == "" || genres == "" {
		return Game{}, false
	}

	var g Game
	g.ID = appID
	g.Name = truncate(strings.TrimSpace(sg.Name), maxNameLen)
	g.CleanName = truncate(CleanName(g.Name), maxCleanNameLen)
	g.Genres = genres
	g.Developer = joinList(sg.Developers, maxCompanyLen)
	g.Publisher = joinList(sg.Publishers, maxCompanyLen)
	g.Categories = joinList(sg.Categories, maxListLen)
	g.Price = math.Max(float64(sg.Price), 0)

	g.HeaderImage = sg.HeaderImage
	if !strings.HasPrefix(g.HeaderImage, "http") {
		g.HeaderImage = fmt.Sprintf("https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg", appID)
	}
	g.StoreURL = fmt.Sprintf("https://store.steampowered.com/app/%d", appID)

	g.PositiveRatings = max(int(sg.Positive), 0)
	g.NegativeRatings = max(int(sg.Negative), 0)
	g.PopularityScore = Popularity(g.PositiveRatings, g.NegativeRatings) * 100

	detailed := sg.DetailedDescription
	if detailed == "" {
		detailed = sg.ShortDescription
	}
	g.DetailedDescription = CleanText(detailed, maxDetailedLen)
	g.ShortDescription = CleanText(sg.ShortDescription, maxShortDescLen)

	g.ReleaseDate = truncate(rawText(sg.ReleaseDate), maxReleaseDateLen)
	g.AveragePlaytime = max(int(sg.AveragePlaytime), 0)
	g.Windows, g.Mac, g.Linux = sg.Windows, sg.Mac, sg.Linux
	g.Tags = parseTags(sg.Tags)
	return g, true
}

// Popularity is the smoothed positive share of reviews in [0, 1]: 0 with no
// reviews, a Bayesian average under 10 reviews, else the Wilson lower bound.
func Popularity(positive, negative int) float64 {
	total := positive + negative
	if total <= 0 {
		return 0
	}
	if total < smallSampleReviews {
		p := (bayesianPriorWeight*bayesianPriorMean + float64(positive)) / float64(bayesianPriorWeight+total)
		return clamp01(p)
	}
	n := float64(total)
	phat := float64(positive) / n
	z2 := wilsonZ * wilsonZ
	lower := (phat + z2/(2*n) - wilsonZ*math.Sqrt(phat*(1-phat)/n)) / (1 + z2/n)
	return clamp01(lower)
}

// CleanName lower-cases name and removes every rune that is not a letter,
// digit, underscore, or whitespace.
func CleanName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(name))
}

// CleanText strips markup-like runes, keeping letters, digits, whitespace,
// and common punctuation; collapses whitespace; and truncates to maxLen
// runes.
func CleanText(text string, maxLen int) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		if strings.ContainsRune(".,!?;:'\"-", r) {
			return r
		}
		return -1
	}, strings.TrimSpace(text))
	return truncate(strings.Join(strings.Fields(kept), " "), maxLen)
}

// parseTags accepts {"tag": votes} or ["tag", ...] (weight 1 each).
func parseTags(raw json.RawMessage) map[string]float64 {
	tags := map[string]float64{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return tags
	}
	switch raw[0] {
	case '{':
		if err := json.Unmarshal(raw, &tags); err != nil {
			return map[string]float64{}
		}
	case '[':
		var names []string
		if err := json.Unmarshal(raw, &names); err == nil {
			for _, n := range names {
				if n = strings.TrimSpace(n); n != "" {
					tags[n] = 1
				}
			}
		}
	}
	return tags
}

func joinList(items []string, maxLen int) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	return truncate(strings.Join(kept, ", "), maxLen)
}

// rawText renders a JSON string or scalar as text.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// flexFloat decodes a JSON number or a numeric string; anything else is 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}
