// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gamescout/internal/metrics"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// Compile-time interface check.
var _ recommend.CatalogSource = (*Store)(nil)

// ErrGameNotFound is returned when no game has the requested AppID.
var ErrGameNotFound = errors.New("game not found")

// Game is a catalog record plus the review counts its popularity was
// derived from.
type Game struct {
	recommend.CatalogRecord

	PositiveRatings int `json:"positive_ratings"`
	NegativeRatings int `json:"negative_ratings"`
}

const gameColumns = `appid, name, clean_name, genres, developer, publisher, price,
	header_image, store_url, popularity_score, tags, short_description,
	detailed_description, release_date, categories, windows, mac, linux,
	average_playtime`

// FetchCatalog returns every game with popularity above minPopularity,
// ordered by AppID. NULL numeric columns load as zero and malformed tag
// JSON loads as an empty tag map.
func (s *Store) FetchCatalog(ctx context.Context, minPopularity float64) (records []recommend.CatalogRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("fetch_catalog", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE COALESCE(popularity_score, 0) > ? ORDER BY appid`,
		minPopularity)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeQuietly(rows)

	var malformed int
	for rows.Next() {
		rec, badTags, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if badTags {
			malformed++
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	if malformed > 0 {
		s.logger.Debug().Int("rows", malformed).Msg("Catalog rows with malformed tags loaded with empty tags")
	}
	return records, nil
}

// GetGame returns one game by AppID.
func (s *Store) GetGame(ctx context.Context, appID int64) (rec recommend.CatalogRecord, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrGameNotFound) {
			metrics.RecordCatalogQuery("get_game", time.Since(start), nil)
			return
		}
		metrics.RecordCatalogQuery("get_game", time.Since(start), err)
	}()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	row := s.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE appid = ?`, appID)
	rec, _, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.CatalogRecord{}, ErrGameNotFound
	}
	if err != nil {
		return recommend.CatalogRecord{}, fmt.Errorf("get game %d: %w", appID, err)
	}
	return rec, nil
}

// Count returns the number of games.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

// UpsertGames inserts or replaces games in one transaction and returns the
// number written.
func (s *Store) UpsertGames(ctx context.Context, games []Game) (n int, err error) {
	if len(games) == 0 {
		return 0, nil
	}
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("upsert_games", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO games (
		appid, name, clean_name, genres, developer, publisher, price,
		header_image, store_url, popularity_score, tags, short_description,
		detailed_description, positive_ratings, negative_ratings, release_date,
		categories, windows, mac, linux, average_playtime, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (appid) DO UPDATE SET
		name = EXCLUDED.name,
		clean_name = EXCLUDED.clean_name,
		genres = EXCLUDED.genres,
		developer = EXCLUDED.developer,
		publisher = EXCLUDED.publisher,
		price = EXCLUDED.price,
		header_image = EXCLUDED.header_image,
		store_url = EXCLUDED.store_url,
		popularity_score = EXCLUDED.popularity_score,
		tags = EXCLUDED.tags,
		short_description = EXCLUDED.short_description,
		detailed_description = EXCLUDED.detailed_description,
		positive_ratings = EXCLUDED.positive_ratings,
		negative_ratings = EXCLUDED.negative_ratings,
		release_date = EXCLUDED.release_date,
		categories = EXCLUDED.categories,
		windows = EXCLUDED.windows,
		mac = EXCLUDED.mac,
		linux = EXCLUDED.linux,
		average_playtime = EXCLUDED.average_playtime,
		updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeQuietly(stmt)

	now := time.Now().UTC()
	for i := range games {
		g := &games[i]
		tags, err := encodeTags(g.Tags)
		if err != nil {
			return 0, fmt.Errorf("encode tags for %d: %w", g.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			g.ID, g.Name, g.CleanName, g.Genres, g.Developer, g.Publisher, g.Price,
			g.HeaderImage, g.StoreURL, g.PopularityScore, tags, g.ShortDescription,
			g.DetailedDescription, g.PositiveRatings, g.NegativeRatings, g.ReleaseDate,
			g.Categories, g.Windows, g.Mac, g.Linux, g.AveragePlaytime, now,
		); err != nil {
			return 0, fmt.Errorf("upsert game %d: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(games), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row of gameColumns. badTags reports tag JSON that
// could not be decoded.
func scanRecord(row scanner) (rec recommend.CatalogRecord, badTags bool, err error) {
	var (
		name, cleanName, genres, developer, publisher    sql.NullString
		headerImage, storeURL, tags, shortDesc, detailed sql.NullString
		releaseDate, categories                          sql.NullString
		price, popularity                                sql.NullFloat64
		windows, mac, linux                              sql.NullBool
		playtime                                         sql.NullInt64
	)
	if err := row.Scan(
		&rec.ID, &name, &cleanName, &genres, &developer, &publisher, &price,
		&headerImage, &storeURL, &popularity, &tags, &shortDesc,
		&detailed, &releaseDate, &categories, &windows, &mac, &linux,
		&playtime,
	); err != nil {
		return recommend.CatalogRecord{}, false, err
	}

	rec.Name = name.String
	rec.CleanName = cleanName.String
	rec.Genres = genres.String
	rec.Developer = developer.String
	rec.Publisher = publisher.String
	rec.Price = nonNegative(price.Float64)
	rec.HeaderImage = headerImage.String
	rec.StoreURL = storeURL.String
	rec.PopularityScore = popularity.Float64
	rec.ShortDescription = shortDesc.String
	rec.DetailedDescription = detailed.String
	rec.ReleaseDate = releaseDate.String
	rec.Categories = categories.String
	rec.Windows = windows.Bool
	rec.Mac = mac.Bool
	rec.Linux = linux.Bool
	rec.AveragePlaytime = int(max(playtime.Int64, 0))

	rec.Tags, badTags = decodeTags(tags.String)
	return rec, badTags, nil
}

// decodeTags parses a JSON object of tag vote weights. Empty and malformed
// input both yield an empty map; bad reports the malformed case.
func decodeTags(raw string) (tags map[string]float64, bad bool) {
	tags = map[string]float64{}
	if raw == "" || raw == "null" {
		return tags, false
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return map[string]float64{}, true
	}
	return tags, false
}

func encodeTags(tags map[string]float64) (string, error) {
	if len(tags) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
