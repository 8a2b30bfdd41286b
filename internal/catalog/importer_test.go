// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

type memoryWriter struct {
	games   []Game
	batches int
	err     error
}

func (w *memoryWriter) UpsertGames(_ context.Context, games []Game) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.batches++
	w.games = append(w.games, games...)
	return len(games), nil
}

const portalJSON = `{"name":"Portal 2","release_date":"Apr 18, 2011","price":"9.99",
"short_description":"<b>Sequel</b> to Portal!","detailed_description":"",
"header_image":"","windows":true,"mac":true,"linux":true,
"developers":["Valve"],"publishers":["Valve"],"genres":["Action","Adventure"],
"categories":["Single-player","Co-op"],"positive":100,"negative":0,
"average_playtime_forever":600,"tags":{"Puzzle":500,"Co-op":300}}`

func TestPopularity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		pos, neg      int
		want          float64
		approx        bool
		lower, higher float64
	}{
		{name: "no reviews", pos: 0, neg: 0, want: 0},
		{name: "small sample all positive", pos: 5, neg: 0, want: (15*0.6 + 5) / 20},
		{name: "small sample all negative", pos: 0, neg: 9, want: 9.0 / 24},
		{name: "wilson perfect", pos: 100, neg: 0, approx: true, lower: 0.98, higher: 0.99},
		{name: "wilson even", pos: 500, neg: 500, approx: true, lower: 0.46, higher: 0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Popularity(tt.pos, tt.neg)
			if tt.approx {
				if got < tt.lower || got > tt.higher {
					t.Errorf("Popularity(%d, %d) = %f, want in [%f, %f]", tt.pos, tt.neg, got, tt.lower, tt.higher)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Popularity(%d, %d) = %f, want %f", tt.pos, tt.neg, got, tt.want)
			}
		})
	}
}

func TestPopularity_Monotonic(t *testing.T) {
	t.Parallel()

	if Popularity(90, 10) <= Popularity(60, 40) {
		t.Error("more positive share should score higher")
	}
	if Popularity(900, 100) <= Popularity(9, 1) {
		t.Error("more reviews at the same share should score higher")
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"Portal 2", "portal 2"},
		{"The Witcher® 3: Wild Hunt", "the witcher 3 wild hunt"},
		{"Half-Life", "halflife"},
		{"Pokémon_Café", "pokémon_café"},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	if got := CleanText("  <b>Hello</b>,   world! \n\t(Again)  ", 0); got != "bHellob, world! Again" {
		t.Errorf("CleanText() = %q", got)
	}
	if got := CleanText("abcdef", 3); got != "abc" {
		t.Errorf("CleanText() truncated = %q, want abc", got)
	}
}

func TestConvertEntry(t *testing.T) {
	t.Parallel()

	g, ok := convertEntry("620", []byte(portalJSON))
	if !ok {
		t.Fatal("convertEntry() rejected a valid entry")
	}
	if g.ID != 620 || g.Name != "Portal 2" || g.CleanName != "portal 2" {
		t.Errorf("identity = %d %q %q", g.ID, g.Name, g.CleanName)
	}
	if g.Genres != "Action, Adventure" || g.Developer != "Valve" || g.Categories != "Single-player, Co-op" {
		t.Errorf("lists = %q %q %q", g.Genres, g.Developer, g.Categories)
	}
	if g.Price != 9.99 {
		t.Errorf("Price = %v, want 9.99 from a numeric string", g.Price)
	}
	if g.HeaderImage != "https://cdn.cloudflare.steamstatic.com/steam/apps/620/header.jpg" {
		t.Errorf("HeaderImage = %q", g.HeaderImage)
	}
	if g.StoreURL != "https://store.steampowered.com/app/620" {
		t.Errorf("StoreURL = %q", g.StoreURL)
	}
	if g.ShortDescription != "bSequelb to Portal!" || g.DetailedDescription != g.ShortDescription {
		t.Errorf("descriptions = %q / %q", g.ShortDescription, g.DetailedDescription)
	}
	if g.ReleaseDate != "Apr 18, 20" {
		t.Errorf("ReleaseDate = %q, want the first 10 characters", g.ReleaseDate)
	}
	if g.AveragePlaytime != 600 || g.PositiveRatings != 100 {
		t.Errorf("numbers = playtime %d positive %d", g.AveragePlaytime, g.PositiveRatings)
	}
	if math.Abs(g.PopularityScore-Popularity(100, 0)*100) > 1e-9 {
		t.Errorf("PopularityScore = %v", g.PopularityScore)
	}
	if g.Tags["Puzzle"] != 500 {
		t.Errorf("Tags = %v", g.Tags)
	}
}

func TestConvertEntry_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, key, raw string
	}{
		{"zero appid", "0", portalJSON},
		{"non-numeric appid", "abc", portalJSON},
		{"missing name", "1", `{"genres":["Action"]}`},
		{"missing genres", "1", `{"name":"No Genres","genres":[]}`},
		{"not an object", "1", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := convertEntry(tt.key, []byte(tt.raw)); ok {
				t.Error("convertEntry() accepted an invalid entry")
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	if got := parseTags([]byte(`["Indie"," ","RPG"]`)); len(got) != 2 || got["Indie"] != 1 {
		t.Errorf("parseTags(list) = %v", got)
	}
	if got := parseTags([]byte(`{"bad":`)); len(got) != 0 {
		t.Errorf("parseTags(malformed) = %v, want empty", got)
	}
	if got := parseTags(nil); got == nil || len(got) != 0 {
		t.Errorf("parseTags(nil) = %v, want empty map", got)
	}
}

func TestImport_LineDelimited(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"620":` + strings.ReplaceAll(portalJSON, "\n", "") + `}`,
		`{"10":{"name":"Counter-Strike","genres":["Action"],"positive":"20","negative":5}}`,
		`not json`,
		`{"11":{"name":"","genres":["Action"]}}`,
		``,
		`{"12":{"name":"Free Game","genres":["Casual"],"price":0}}`,
	}, "\n")

	w := &memoryWriter{}
	stats, err := NewImporter(w, 2).Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Read != 5 || stats.Imported != 3 || stats.Skipped != 2 {
		t.Errorf("Import() stats = %+v, want read 5 imported 3 skipped 2", stats)
	}
	if w.batches != 2 {
		t.Errorf("batches = %d, want 2", w.batches)
	}
	if w.games[1].PositiveRatings != 20 {
		t.Errorf("PositiveRatings from string = %d, want 20", w.games[1].PositiveRatings)
	}
}

func TestImport_SingleObject(t *testing.T) {
	t.Parallel()

	input := "{\n  \"30\": {\"name\": \"Zeta\", \"genres\": [\"RPG\"]},\n  \"20\": {\"name\": \"Eta\", \"genres\": [\"RPG\"]},\n  \"0\": {\"name\": \"Bad\", \"genres\": [\"RPG\"]}\n}\n"

	w := &memoryWriter{}
	stats, err := NewImporter(w, 0).Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Read != 3 || stats.Imported != 2 || stats.Skipped != 1 {
		t.Errorf("Import() stats = %+v", stats)
	}
	if len(w.games) != 2 || w.games[0].ID != 20 || w.games[1].ID != 30 {
		t.Errorf("imported games not in key order: %+v", w.games)
	}
}

func TestImport_Empty(t *testing.T) {
	t.Parallel()

	stats, err := NewImporter(&memoryWriter{}, 10).Import(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats != (ImportStats{}) {
		t.Errorf("Import() stats = %+v, want zero", stats)
	}
}

func TestImport_WriterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	input := `{"1":{"name":"A","genres":["Action"]}}`
	_, err := NewImporter(&memoryWriter{err: boom}, 10).Import(context.Background(), strings.NewReader(input))
	if !errors.Is(err, boom) {
		t.Errorf("Import() error = %v, want %v", err, boom)
	}
}

func TestImport_IntoStore(t *testing.T) {
	s := setupTestStore(t)
	input := `{"620":` + strings.ReplaceAll(portalJSON, "\n", "") + `}`

	if _, err := NewImporter(s, 100).Import(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	rec, err := s.GetGame(context.Background(), 620)
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if rec.Name != "Portal 2" || rec.Tags["Co-op"] != 300 {
		t.Errorf("GetGame() = %+v", rec)
	}
}
