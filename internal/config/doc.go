// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package config loads Gamescout's configuration.

Configuration is layered with Koanf v2:

 1. Defaults built into the binary
 2. An optional YAML file: CONFIG_PATH, ./config.yaml, or /etc/gamescout/config.yaml
 3. Mapped environment variables

# Sections

  - server: HTTP bind address, timeouts, environment
  - database: DuckDB catalog store
  - catalog: import path, fetch timeout, periodic refresh, circuit breaker
  - snapshot: badger vector snapshot store
  - embedder: optional ONNX name embedder for seed resolution
  - api: rate limits, CORS, rebuild throttle, comment length
  - logging: level, format, caller
  - engine: every recommendation tunable (weights, vocabularies, index, limits)

# Environment Variables

Only mapped variables are read. Common ones:

	HTTP_PORT=5000
	DUCKDB_PATH=/data/gamescout.duckdb
	SNAPSHOT_DIR=/data/snapshots
	RECOMMEND_MIN_SIMILARITY=0.3
	RECOMMEND_GENRES=Action,RPG,Strategy
	LOG_LEVEL=debug

List values (CORS origins, genres, blacklist, rare genres) are
comma-separated.

# Example YAML

	server:
	  port: 8080
	engine:
	  scoring:
	    min_similarity: 0.3
	    genre_importance:
	      - genre: RPG
	        weight: 1.3
	  diversity:
	    genre_lambda: 0.8

# Validation

Load validates struct tags with go-playground/validator, cross-field
rules (snapshot location, ONNX paths, production CORS), and finally the
engine configuration's own Validate.
*/
package config
