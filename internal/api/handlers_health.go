// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/haverstock/trouvaille/internal/models"
)

// ReadyCheck reports whether a dependency is able to serve. A nil error
// means ready.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version string
	checks  map[string]ReadyCheck
}

// NewHealthHandler creates a health handler with named readiness checks.
func NewHealthHandler(version string, checks map[string]ReadyCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Live handles GET /api/v1/health/live. It succeeds whenever the process
// can serve HTTP at all.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"status":  "alive",
			"version": h.version,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Ready handles GET /api/v1/health/ready. It runs every registered check
// and reports 503 when any dependency is unavailable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status": state,
			"checks": results,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
