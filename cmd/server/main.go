// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

// Command server runs the Trouvaille discovery API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/haverstock/trouvaille/internal/api"
	"github.com/haverstock/trouvaille/internal/config"
	"github.com/haverstock/trouvaille/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Config errors log with the default logger; Init has not run yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logFormat := cfg.Logging.Format
	if cfg.Server.Environment == "development" && logFormat == "" {
		logFormat = "console"
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: logFormat,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("catalog_url", cfg.Catalog.URL).
		Bool("geolocation_enabled", cfg.Geolocation.Enabled).
		Str("velocity_estimator", cfg.Discovery.VelocityEstimator).
		Msg("Configuration loaded")

	handler, health, err := buildHandlers(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize discovery engine")
	}

	router := api.NewRouter(handler, health, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitRequests,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	}))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Server starting")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		return
	}
	logging.Info().Msg("Server stopped gracefully")
}
