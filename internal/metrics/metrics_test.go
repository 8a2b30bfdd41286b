// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Collectors are process-global, so tests compare deltas and do not run
// in parallel.

func TestRecordRecommend(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits)
	misses := testutil.ToFloat64(CacheMisses)
	hitReqs := testutil.ToFloat64(RecommendRequests.WithLabelValues("hit"))

	RecordRecommend(2*time.Millisecond, true, 10)
	RecordRecommend(40*time.Millisecond, false, 15)
	RecordRecommend(30*time.Millisecond, false, 0)

	if got := testutil.ToFloat64(CacheHits) - hits; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses) - misses; got != 2 {
		t.Errorf("cache misses delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("hit")) - hitReqs; got != 1 {
		t.Errorf("hit requests delta = %v, want 1", got)
	}
}

func TestRecordBuild(t *testing.T) {
	ok := testutil.ToFloat64(BuildAttempts.WithLabelValues("1", "success"))
	failed := testutil.ToFloat64(BuildAttempts.WithLabelValues("2", "error"))

	RecordBuild(time.Second, 1, nil)
	RecordBuild(time.Second, 2, errors.New("catalog unavailable"))

	if got := testutil.ToFloat64(BuildAttempts.WithLabelValues("1", "success")) - ok; got != 1 {
		t.Errorf("success attempts delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(BuildAttempts.WithLabelValues("2", "error")) - failed; got != 1 {
		t.Errorf("error attempts delta = %v, want 1", got)
	}
}

func TestRecordGeneration(t *testing.T) {
	RecordGeneration(3, 1200, "flat")
	RecordGeneration(4, 52000, "ivf")

	if got := testutil.ToFloat64(Generation); got != 4 {
		t.Errorf("generation = %v, want 4", got)
	}
	if got := testutil.ToFloat64(CatalogRecords); got != 52000 {
		t.Errorf("catalog records = %v, want 52000", got)
	}
	if got := testutil.ToFloat64(IndexKind.WithLabelValues("ivf")); got != 1 {
		t.Errorf("index kind ivf = %v, want 1", got)
	}
	// The previous kind was reset; reading it recreates the series at 0.
	if got := testutil.ToFloat64(IndexKind.WithLabelValues("flat")); got != 0 {
		t.Errorf("index kind flat = %v, want 0", got)
	}
}

func TestObserver(t *testing.T) {
	var obs Observer
	before := testutil.ToFloat64(CacheMisses)

	obs.ObserveRecommend(time.Millisecond, false, 5)
	obs.ObserveBuild(time.Second, 1, nil)
	obs.ObserveGeneration(9, 10, "flat")

	if got := testutil.ToFloat64(CacheMisses) - before; got != 1 {
		t.Errorf("cache misses delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Generation); got != 9 {
		t.Errorf("generation = %v, want 9", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/search", "200"))

	RecordAPIRequest("GET", "/api/search", "200", 12*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/search", "200")) - before; got != 1 {
		t.Errorf("api requests delta = %v, want 1", got)
	}
}

func TestRecordCatalogQuery(t *testing.T) {
	before := testutil.ToFloat64(CatalogQueryErrors.WithLabelValues("fetch"))

	RecordCatalogQuery("fetch", time.Millisecond, nil)
	RecordCatalogQuery("fetch", time.Millisecond, errors.New("io"))

	if got := testutil.ToFloat64(CatalogQueryErrors.WithLabelValues("fetch")) - before; got != 1 {
		t.Errorf("catalog errors delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest_Concurrent(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	before := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/search"))
	RecordRateLimitHit("/api/search")
	if got := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/search")) - before; got != 1 {
		t.Errorf("rate limit hits delta = %v, want 1", got)
	}
}
