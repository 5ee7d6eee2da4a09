// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

// Package metrics registers the Prometheus instrumentation for Trouvaille:
// API latency and throughput, discovery engine operations, catalog fetches,
// and circuit breaker state.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Discovery Engine Metrics
	DiscoveryOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_operation_duration_seconds",
			Help:    "Duration of discovery engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "popular", "trending", "personalized", "related", "feed"
	)

	DiscoveryOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_operation_errors_total",
			Help: "Total number of discovery engine operation errors",
		},
		[]string{"operation", "error_type"}, // error_type: "invalid_input", "retrieval", "internal"
	)

	DiscoveryItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_items_returned",
			Help:    "Number of items returned per discovery operation",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)

	FeedSectionsDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_feed_sections_degraded_total",
			Help: "Total number of discovery feed sections served degraded",
		},
		[]string{"section"},
	)

	// Catalog Client Metrics
	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Duration of catalog fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetch_errors_total",
			Help: "Total number of catalog fetch errors",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDiscoveryOp records one engine operation with its result size.
func RecordDiscoveryOp(operation string, itemCount int, duration time.Duration) {
	DiscoveryOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	DiscoveryItemsReturned.WithLabelValues(operation).Observe(float64(itemCount))
}

// RecordDiscoveryError records one engine operation failure.
func RecordDiscoveryError(operation, errorType string) {
	DiscoveryOpErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordCatalogFetch records one catalog fetch.
func RecordCatalogFetch(endpoint string, duration time.Duration, err error) {
	CatalogFetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if err != nil {
		CatalogFetchErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordDegradedSection records a feed section served degraded.
func RecordDegradedSection(section string) {
	FeedSectionsDegraded.WithLabelValues(section).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
