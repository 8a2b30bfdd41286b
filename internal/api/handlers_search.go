// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/gamescout/internal/logging"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// minAutocompleteLength is the shortest query autocomplete answers.
const minAutocompleteLength = 2

// SearchResponse is the payload of GET /api/search.
type SearchResponse struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Results []recommend.Result `json:"results"`
}

// SurpriseResponse is the payload of GET /api/surprise.
type SurpriseResponse struct {
	Source  recommend.Seed     `json:"source"`
	Results []recommend.Result `json:"results"`
}

// Search handles GET /api/search. q holds one or more "+"-separated seed
// names; genres, exclude, year_*, playtime_* and n refine the result.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Recommendation index is still being prepared", nil)
		return
	}

	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	seeds := recommend.ParseSeeds(query)
	if len(seeds) == 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Query parameter q is required", nil)
		return
	}

	filters, err := recommend.ParseFilters(recommend.RawFilters{
		Genres:      q.Get("genres"),
		Exclude:     q.Get("exclude"),
		YearMin:     q.Get("year_min"),
		YearMax:     q.Get("year_max"),
		PlaytimeMin: q.Get("playtime_min"),
		PlaytimeMax: q.Get("playtime_max"),
	})
	if err != nil {
		// Malformed values are dropped; the rest of the filter still applies.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring malformed filter values")
	}

	start := time.Now()
	results, ok := h.recommend(w, r, recommend.Request{
		Seeds:     seeds,
		N:         getIntParam(r, "n", 0),
		Filters:   filters,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if !ok {
		return
	}

	respondJSON(w, r, http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, Metadata{QueryTimeMS: time.Since(start).Milliseconds(), Count: intPtr(len(results))})
}

// Autocomplete handles GET /api/autocomplete. Short queries and an engine
// that is not ready yield an empty list.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < minAutocompleteLength || !h.engine.Ready() {
		respondJSON(w, r, http.StatusOK, []string{}, Metadata{})
		return
	}
	names := h.engine.Autocomplete(r.Context(), q, getIntParam(r, "limit", 0))
	respondJSON(w, r, http.StatusOK, names, Metadata{Count: intPtr(len(names))})
}

// Surprise handles GET /api/surprise: a random well-rated game and its
// recommendations.
func (h *Handler) Surprise(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Recommendation index is still being prepared", nil)
		return
	}
	seed, ok := h.engine.RandomSeed()
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No surprise game available", nil)
		return
	}

	results, ok := h.recommend(w, r, recommend.Request{
		Seeds:     []string{seed.Name},
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, SurpriseResponse{Source: seed, Results: results},
		Metadata{Count: intPtr(len(results))})
}

// Genres handles GET /api/genres.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres := h.engine.Genres()
	if genres == nil {
		genres = []string{}
	}
	respondJSON(w, r, http.StatusOK, genres, Metadata{Count: intPtr(len(genres))})
}

// recommend runs a bounded recommendation and writes the error response
// itself when it fails.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req recommend.Request) ([]recommend.Result, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	results, err := h.engine.Recommend(ctx, req)
	switch {
	case err == nil:
		if results == nil {
			results = []recommend.Result{}
		}
		return results, true
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Recommendation timed out", err)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Recommendation failed", err)
	}
	return nil, false
}

// getIntParam returns the integer query parameter key, or def when it is
// missing or malformed.
func getIntParam(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
