// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

// Package api provides the HTTP surface of Trouvaille using the chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers and middleware into the chi route tree.
type Router struct {
	handler    *Handler
	health     *HealthHandler
	middleware *Middleware
}

// NewRouter creates a router from its parts.
func NewRouter(handler *Handler, health *HealthHandler, mw *Middleware) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{
		handler:    handler,
		health:     health,
		middleware: mw,
	}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	// Health endpoints get a permissive rate limit so monitoring can poll
	// frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Get("/live", router.health.Live)
		r.Get("/ready", router.health.Ready)
	})

	// Discovery endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(PrometheusMetrics)

		r.Get("/discovery/popular", router.handler.Popular)
		r.Get("/discovery/trending", router.handler.Trending)
		r.Post("/discovery/personalized", router.handler.Personalized)
		r.Post("/discovery/feed", router.handler.Feed)
		r.Get("/discovery/config", router.handler.EngineConfig)
		r.Get("/venues/{venueID}/related", router.handler.VenueRelated)
	})

	// Prometheus scrape endpoint, outside the API rate limit.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
