// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package metrics defines Gamescout's Prometheus collectors.

All collectors are registered on the default registry through promauto and
exposed by the API at /metrics.

# Metric Groups

Recommendation:
  - gamescout_recommend_requests_total{cache}
  - gamescout_recommend_duration_seconds{cache}
  - gamescout_recommend_results
  - gamescout_cache_hits_total, gamescout_cache_misses_total

Build and generation:
  - gamescout_build_duration_seconds{status}
  - gamescout_build_attempts_total{attempt,status}
  - gamescout_generation, gamescout_catalog_records
  - gamescout_index_kind{kind}

Catalog store:
  - gamescout_catalog_query_duration_seconds{operation}
  - gamescout_catalog_query_errors_total{operation}
  - gamescout_circuit_breaker_state{name}
  - gamescout_circuit_breaker_requests_total{name,result}
  - gamescout_circuit_breaker_transitions_total{name,from,to}

API:
  - gamescout_api_requests_total{method,endpoint,status_code}
  - gamescout_api_request_duration_seconds{method,endpoint}
  - gamescout_api_active_requests
  - gamescout_api_rate_limit_hits_total{endpoint}

# Engine Integration

Observer implements recommend.Observer and is passed to the engine in its
components:

	comps.Observer = metrics.Observer{}
*/
package metrics
