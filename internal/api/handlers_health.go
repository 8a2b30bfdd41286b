// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package api

import (
	"net/http"

	"github.com/tomtom215/gamescout/internal/logging"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	recommend.Status
	Message string `json:"message"`
}

// Health handles GET /api/health. It always answers 200; the engine state
// is in the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	msg := "Service is active"
	switch st.State {
	case recommend.StateReady:
	case recommend.StateFailed:
		msg = "Index build failed"
	default:
		msg = "Service is loading"
	}
	respondJSON(w, r, http.StatusOK, HealthResponse{Status: st, Message: msg}, Metadata{})
}

// Ready handles GET /api/health/ready for orchestrator probes: 200 once a
// generation is serving, 503 before.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Not ready", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]bool{"ready": true}, Metadata{})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.engine.Stats(), Metadata{})
}

// Rebuild handles POST /api/admin/rebuild. Requests are throttled by a
// token bucket and coalesced with any rebuild already pending.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if h.rebuild == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Rebuilds are not available", nil)
		return
	}
	if !h.limiter.Allow() {
		respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rebuild requested too recently", nil)
		return
	}
	queued := h.rebuild.Trigger()
	logging.Ctx(r.Context()).Info().Bool("queued", queued).Msg("Index rebuild requested")
	respondJSON(w, r, http.StatusAccepted, map[string]bool{"queued": queued}, Metadata{})
}
