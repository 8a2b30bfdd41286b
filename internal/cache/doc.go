// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package cache provides in-memory data structures backing the recommendation
engine's per-generation lookups.

# Overview

  - LRU: a generic, thread-safe least-recently-used cache with fixed capacity.
    The engine memoizes recommendation results in one LRU per index
    generation and discards it on rebuild.
  - TitleTrie: a case-insensitive prefix tree over catalog titles, used as
    the autocomplete fallback when embedding search yields too few names.

# Usage Example

	results := cache.NewLRU[[]recommend.Result](10000)
	results.Add(key, recs)
	if recs, ok := results.Get(key); ok {
	    return recs
	}

	titles := cache.NewTitleTrie()
	titles.Insert("Hollow Knight", 0, 91.5)
	matches := titles.Complete("hol", 5)

Both structures use only the standard library.
*/
package cache
