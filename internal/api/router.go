// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler    *Handler
	middleware *Middleware
	timeout    time.Duration
}

// NewRouter creates a router. timeout bounds every request; zero disables
// the bound.
func NewRouter(handler *Handler, mw *Middleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw, timeout: timeout}
}

// Setup returns the HTTP handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())
	if rt.timeout > 0 {
		r.Use(chimiddleware.Timeout(rt.timeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/health", func(r chi.Router) {
		r.Use(rt.middleware.RateLimitCustom("health", RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", rt.handler.Health)
		r.Get("/ready", rt.handler.Ready)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics)

		r.With(rt.middleware.RateLimitCustom("search", RateLimitSearch)).Get("/search", rt.handler.Search)
		r.Get("/autocomplete", rt.handler.Autocomplete)
		r.Get("/surprise", rt.handler.Surprise)
		r.Get("/genres", rt.handler.Genres)
		r.Get("/stats", rt.handler.Stats)

		r.Get("/comments", rt.handler.ListComments)
		r.With(rt.middleware.RateLimitCustom("comments", RateLimitCommentWrite)).Post("/comments", rt.handler.PostComment)

		r.Post("/admin/rebuild", rt.handler.Rebuild)
	})

	return r
}
