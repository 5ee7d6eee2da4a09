// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/haverstock/trouvaille/internal/config"
	"github.com/haverstock/trouvaille/internal/discovery"
	"github.com/haverstock/trouvaille/internal/logging"
	"github.com/haverstock/trouvaille/internal/metrics"
	"github.com/haverstock/trouvaille/internal/models"
)

// CircuitBreakerClient wraps Client with circuit breaker protection so a
// slow or failing catalog does not cascade into every discovery request.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests should mock the underlying client, not the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a catalog client with circuit breaker.
// The circuit opens after a 60% failure rate over at least 10 requests,
// stays open for 2 minutes, then allows 3 probe requests half-open.
func NewCircuitBreakerClient(cfg *config.CatalogConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "catalog-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a catalog call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// FetchCandidates returns up to limit items of the given kind matching the
// filters.
func (cbc *CircuitBreakerClient) FetchCandidates(ctx context.Context, kind models.ContentKind, filters discovery.CandidateFilters, limit int) ([]models.ContentItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchCandidates(ctx, kind, filters, limit)
	})
	return castResult[[]models.ContentItem](result, err)
}

// FetchVenue returns a single venue record.
func (cbc *CircuitBreakerClient) FetchVenue(ctx context.Context, id string) (*models.ContentItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchVenue(ctx, id)
	})
	return castResult[*models.ContentItem](result, err)
}

// FetchSimilarVenues returns venues the catalog relates to the given one.
func (cbc *CircuitBreakerClient) FetchSimilarVenues(ctx context.Context, id string, limit int) ([]models.ContentItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchSimilarVenues(ctx, id, limit)
	})
	return castResult[[]models.ContentItem](result, err)
}

// FetchRelatedArticles returns articles mentioning the venue.
func (cbc *CircuitBreakerClient) FetchRelatedArticles(ctx context.Context, venueID string, limit int) ([]models.ContentItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchRelatedArticles(ctx, venueID, limit)
	})
	return castResult[[]models.ContentItem](result, err)
}

// State returns the current circuit breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
