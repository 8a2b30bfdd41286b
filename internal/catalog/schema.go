// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"context"
	"fmt"
)

// schemaStatements create the catalog tables and indexes. Every statement
// is idempotent. Timestamps are plain TIMESTAMP written by the application
// so the schema does not depend on the ICU extension. The games table has
// no secondary indexes: DuckDB rejects ON CONFLICT DO UPDATE on indexed
// columns, and catalog reads are full scans.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS games (
		appid BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		clean_name VARCHAR,
		genres VARCHAR,
		developer VARCHAR,
		publisher VARCHAR,
		price DOUBLE DEFAULT 0,
		header_image VARCHAR,
		store_url VARCHAR,
		popularity_score DOUBLE DEFAULT 0,
		tags VARCHAR,
		short_description VARCHAR,
		detailed_description VARCHAR,
		positive_ratings INTEGER DEFAULT 0,
		negative_ratings INTEGER DEFAULT 0,
		release_date VARCHAR,
		categories VARCHAR,
		windows BOOLEAN DEFAULT false,
		mac BOOLEAN DEFAULT false,
		linux BOOLEAN DEFAULT false,
		average_playtime INTEGER DEFAULT 0,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id VARCHAR PRIMARY KEY,
		appid BIGINT NOT NULL,
		content VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_appid ON comments(appid)`,
}

// CreateSchema creates the catalog tables if they do not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
