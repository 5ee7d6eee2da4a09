// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/haverstock/trouvaille/internal/config"
	"github.com/haverstock/trouvaille/internal/logging"
	"github.com/haverstock/trouvaille/internal/models"
)

// Geolocator resolves the server's approximate position from an IP
// geolocation service. It implements discovery.Locator.
//
// Lookups are best effort: a failed or disabled lookup returns a nil
// location with nil error so callers degrade to non-geo results instead of
// failing the whole request. Results are cached for the configured TTL since
// the position rarely changes between requests.
type Geolocator struct {
	client  *http.Client
	baseURL string
	enabled bool

	cacheTTL time.Duration

	mu       sync.Mutex
	cached   *models.Coordinates
	cachedAt time.Time
}

// ipAPIResponse is the subset of the ip-api.com JSON payload we consume.
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewGeolocator creates a geolocator from configuration.
func NewGeolocator(cfg *config.GeolocationConfig) *Geolocator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Geolocator{
		client:   &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		enabled:  cfg.Enabled,
		cacheTTL: ttl,
	}
}

// CurrentLocation returns the resolved position, or nil when geolocation is
// disabled or the lookup fails. Safe for concurrent use.
func (g *Geolocator) CurrentLocation(ctx context.Context) (*models.Coordinates, error) {
	if !g.enabled {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cached != nil && time.Since(g.cachedAt) < g.cacheTTL {
		return g.cached, nil
	}

	loc, err := g.lookup(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("geolocation lookup failed")
		return nil, nil
	}

	g.cached = loc
	g.cachedAt = time.Now()
	return loc, nil
}

func (g *Geolocator) lookup(ctx context.Context) (*models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("geolocation service error: %s", payload.Message)
	}

	return &models.Coordinates{Lat: payload.Lat, Lng: payload.Lon}, nil
}
