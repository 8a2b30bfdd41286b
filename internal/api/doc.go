// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package api serves the recommendation engine over HTTP.

Every JSON endpoint answers with the same envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 3},
	  "error": {"code": "BAD_REQUEST", "message": "..."}
	}

# Endpoints

	GET  /api/health               engine status, always 200
	GET  /api/health/ready         200 once a generation is serving, else 503
	GET  /api/search?q=A+%2B+B     recommendations for one or more seeds
	GET  /api/autocomplete?q=por   name suggestions, optional limit
	GET  /api/surprise             recommendations for a random popular seed
	GET  /api/genres               genre vocabulary of the serving generation
	GET  /api/stats                request and build counters
	GET  /api/comments?appid=N     comments for a game
	POST /api/comments             add a comment
	POST /api/admin/rebuild        queue an index rebuild (throttled)
	GET  /metrics                  Prometheus exposition

Search accepts genres, exclude, year_min, year_max, playtime_min,
playtime_max and n. Malformed numeric filters are ignored rather than
rejected.

# Middleware

Requests pass through request ID propagation, panic recovery, CORS, a
per-IP rate limit (httprate), security headers, and Prometheus request
metrics. Search, comment writes and health checks carry their own limits.
*/
package api
