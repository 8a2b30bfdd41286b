// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package catalog stores the game catalog and per-game comments in DuckDB.

The Store is the engine's catalog source: FetchCatalog returns every game
above a popularity floor ordered by AppID, so two fetches of the same data
produce the same record order and therefore the same vectors.

# Tables

	games     one row per Steam AppID; tags are a JSON object of vote weights
	comments  free-text comments keyed by AppID, UUID primary key

# Ingest

The Importer reads the Steam games dataset, either newline-delimited
{"<appid>": {...}} objects or one large object keyed by AppID, and upserts
games in batches. Popularity is computed at ingest from positive and
negative review counts:

  - no reviews: 0
  - fewer than 10 reviews: Bayesian average with a prior of 15 votes at 0.6
  - otherwise: Wilson score lower bound at 95% confidence

The result is clamped to [0, 1] and stored on a 0-100 scale.

# Resilience

BreakerStore wraps any recommend.CatalogSource in a sony/gobreaker circuit
breaker so a failing database fails engine builds fast instead of holding
each retry for the full fetch timeout.

# Thread Safety

Store is safe for concurrent use; database/sql pools the DuckDB
connections.
*/
package catalog
