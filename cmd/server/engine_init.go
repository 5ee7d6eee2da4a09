// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package main

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/haverstock/trouvaille/internal/api"
	"github.com/haverstock/trouvaille/internal/catalog"
	"github.com/haverstock/trouvaille/internal/config"
	"github.com/haverstock/trouvaille/internal/discovery"
	"github.com/haverstock/trouvaille/internal/logging"
)

// buildHandlers wires the catalog client, geolocator, and discovery engine
// into the API handlers.
func buildHandlers(cfg *config.Config) (*api.Handler, *api.HealthHandler, error) {
	source := catalog.NewCircuitBreakerClient(&cfg.Catalog)

	opts := []discovery.Option{}
	if cfg.Geolocation.Enabled {
		opts = append(opts, discovery.WithLocator(catalog.NewGeolocator(&cfg.Geolocation)))
		logging.Info().Msg("Geolocation fallback enabled")
	}

	engine, err := discovery.NewEngine(cfg.Discovery, source, logging.Logger(), opts...)
	if err != nil {
		return nil, nil, err
	}

	checks := map[string]api.ReadyCheck{
		"catalog": catalogReadyCheck(source),
	}

	return api.NewHandler(engine), api.NewHealthHandler(version, checks), nil
}

// catalogReadyCheck reports not-ready while the catalog circuit breaker is
// open. A probe fetch would defeat the breaker, so state is enough.
func catalogReadyCheck(source *catalog.CircuitBreakerClient) api.ReadyCheck {
	return func(ctx context.Context) error {
		if source.State() == gobreaker.StateOpen {
			return fmt.Errorf("catalog circuit breaker is open")
		}
		return nil
	}
}
