// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package storage persists computed content vectors across restarts.
//
// Vectorizing a large catalog is the slowest step of an engine build. The
// engine fingerprints the catalog snapshot and vectorizer settings and asks
// the snapshot store for vectors under that key before recomputing them.
//
// # Storage Format
//
// Snapshots live in BadgerDB under two keys per fingerprint:
//
//	snapshot:meta:{key}  JSON-encoded Metadata
//	snapshot:data:{key}  rows uint32 | dims uint32 | rows*dims float32, little-endian
//
// The metadata carries a SHA-256 checksum of the data value; a snapshot whose
// checksum does not match is reported as an error and ignored by the engine.
//
// # Retention
//
// Only the most recently saved snapshots are kept. Saving a snapshot prunes
// the oldest ones beyond the configured retention count.
//
// # Thread Safety
//
// All operations run in BadgerDB transactions and are safe for concurrent use.
package storage
