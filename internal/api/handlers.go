// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/haverstock/trouvaille/internal/discovery"
	"github.com/haverstock/trouvaille/internal/geo"
	"github.com/haverstock/trouvaille/internal/metrics"
	"github.com/haverstock/trouvaille/internal/models"
)

// Handler serves the discovery API endpoints.
type Handler struct {
	engine *discovery.Engine
}

// NewHandler creates a discovery API handler.
func NewHandler(engine *discovery.Engine) *Handler {
	return &Handler{engine: engine}
}

// popularParams carries the validated query parameters for GetPopular.
type popularParams struct {
	Kind      string  `validate:"required,contentkind"`
	Timeframe string  `validate:"omitempty,timeframe"`
	Limit     int     `validate:"min=0,max=1000"`
	Radius    float64 `validate:"min=0"`
	Unit      string  `validate:"omitempty,distanceunit"`
}

// Popular handles GET /api/v1/discovery/popular.
//
// Query parameters: kind (required), timeframe, limit, category, lat, lng,
// radius, unit, sort=distance.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	params := popularParams{
		Kind:      r.URL.Query().Get("kind"),
		Timeframe: r.URL.Query().Get("timeframe"),
		Limit:     getIntParam(r, "limit", 0),
		Radius:    getFloatParam(r, "radius", 0),
		Unit:      r.URL.Query().Get("unit"),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	center, coordErr := parseCoordinates(r)
	if coordErr != "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", coordErr, nil)
		return
	}

	start := time.Now()
	items, err := h.engine.GetPopular(r.Context(), discovery.PopularRequest{
		Kind:           models.ContentKind(params.Kind),
		Timeframe:      discovery.Timeframe(params.Timeframe),
		Limit:          params.Limit,
		Category:       r.URL.Query().Get("category"),
		Center:         center,
		Radius:         params.Radius,
		Unit:           geo.Unit(params.Unit),
		SortByDistance: r.URL.Query().Get("sort") == "distance",
	})
	if err != nil {
		recordOpError("popular", err)
		respondEngineError(w, err)
		return
	}

	elapsed := time.Since(start)
	metrics.RecordDiscoveryOp("popular", len(items), elapsed)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   items,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// trendingParams carries the validated query parameters for GetTrending.
type trendingParams struct {
	Kind      string  `validate:"required,contentkind"`
	Timeframe string  `validate:"omitempty,timeframe"`
	Limit     int     `validate:"min=0,max=1000"`
	Radius    float64 `validate:"min=0"`
	Unit      string  `validate:"omitempty,distanceunit"`
}

// Trending handles GET /api/v1/discovery/trending.
//
// Query parameters: kind (required), timeframe, limit, lat, lng, radius, unit.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	params := trendingParams{
		Kind:      r.URL.Query().Get("kind"),
		Timeframe: r.URL.Query().Get("timeframe"),
		Limit:     getIntParam(r, "limit", 0),
		Radius:    getFloatParam(r, "radius", 0),
		Unit:      r.URL.Query().Get("unit"),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	center, coordErr := parseCoordinates(r)
	if coordErr != "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", coordErr, nil)
		return
	}

	start := time.Now()
	items, err := h.engine.GetTrending(r.Context(), discovery.TrendingRequest{
		Kind:      models.ContentKind(params.Kind),
		Timeframe: discovery.Timeframe(params.Timeframe),
		Limit:     params.Limit,
		Center:    center,
		Radius:    params.Radius,
		Unit:      geo.Unit(params.Unit),
	})
	if err != nil {
		recordOpError("trending", err)
		respondEngineError(w, err)
		return
	}

	elapsed := time.Since(start)
	metrics.RecordDiscoveryOp("trending", len(items), elapsed)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   items,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// Personalized handles POST /api/v1/discovery/personalized. The preference
// profile arrives as the JSON body; an empty body means no preferences.
// include_venues and include_articles (default true) select which lists
// come back.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	var prefs *models.UserPreferences
	if r.Body != nil && r.ContentLength != 0 {
		prefs = &models.UserPreferences{}
		if err := json.NewDecoder(r.Body).Decode(prefs); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body is not valid JSON", err)
			return
		}
	}

	unit := r.URL.Query().Get("unit")
	if unit != "" && unit != "km" && unit != "miles" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unit must be km or miles", nil)
		return
	}

	start := time.Now()
	content, err := h.engine.GetPersonalized(r.Context(), discovery.PersonalizedRequest{
		Preferences:     prefs,
		Limit:           getIntParam(r, "limit", 0),
		Unit:            geo.Unit(unit),
		IncludeVenues:   getBoolParam(r, "include_venues", true),
		IncludeArticles: getBoolParam(r, "include_articles", true),
	})
	if err != nil {
		recordOpError("personalized", err)
		respondEngineError(w, err)
		return
	}

	elapsed := time.Since(start)
	metrics.RecordDiscoveryOp("personalized", len(content.Venues)+len(content.Articles), elapsed)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   content,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// VenueRelated handles GET /api/v1/venues/{venueID}/related.
func (h *Handler) VenueRelated(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	unit := r.URL.Query().Get("unit")
	if unit != "" && unit != "km" && unit != "miles" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unit must be km or miles", nil)
		return
	}

	start := time.Now()
	related, err := h.engine.GetVenueRelated(r.Context(), discovery.RelatedRequest{
		VenueID:      venueID,
		Limit:        getIntParam(r, "limit", 0),
		Unit:         geo.Unit(unit),
		NearbyRadius: getFloatParam(r, "radius", 0),
	})
	if err != nil {
		recordOpError("related", err)
		respondEngineError(w, err)
		return
	}

	elapsed := time.Since(start)
	metrics.RecordDiscoveryOp("related", len(related.SimilarVenues)+len(related.NearbyVenues)+len(related.RelatedArticles), elapsed)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   related,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// feedParams carries the validated query parameters for the discovery feed.
type feedParams struct {
	Limit    int      `validate:"min=0,max=1000"`
	Sections []string `validate:"dive,feedsection"`
}

// Feed handles POST /api/v1/discovery/feed. Preferences arrive as the JSON
// body; recently seen sections and the limit as query parameters.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	params := feedParams{
		Limit:    getIntParam(r, "limit", 0),
		Sections: parseCommaSeparated(r.URL.Query().Get("seen")),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	var prefs *models.UserPreferences
	if r.Body != nil && r.ContentLength != 0 {
		prefs = &models.UserPreferences{}
		if err := json.NewDecoder(r.Body).Decode(prefs); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body is not valid JSON", err)
			return
		}
	}

	seen := make([]models.FeedSection, len(params.Sections))
	for i, s := range params.Sections {
		seen[i] = models.FeedSection(s)
	}

	start := time.Now()
	feed, err := h.engine.GetDiscoveryFeed(r.Context(), discovery.FeedRequest{
		Preferences:  prefs,
		RecentlySeen: seen,
		Limit:        params.Limit,
		AllOrNothing: getBoolParam(r, "all_or_nothing", false),
	})
	if err != nil {
		recordOpError("feed", err)
		respondEngineError(w, err)
		return
	}

	for _, section := range feed.Degraded {
		metrics.RecordDegradedSection(string(section))
	}

	elapsed := time.Since(start)
	metrics.RecordDiscoveryOp("feed", len(feed.Items), elapsed)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   feed,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
			Degraded:    feed.Degraded,
		},
	})
}

// EngineConfig handles GET /api/v1/discovery/config, echoing the engine
// tuning for operability checks. Catalog credentials never appear here.
func (h *Handler) EngineConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.engine.Config(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// recordOpError classifies an engine error for metrics.
func recordOpError(operation string, err error) {
	switch {
	case discovery.IsInvalidInput(err):
		metrics.RecordDiscoveryError(operation, "invalid_input")
	case discovery.IsRetrievalError(err):
		metrics.RecordDiscoveryError(operation, "retrieval")
	default:
		metrics.RecordDiscoveryError(operation, "internal")
	}
}
