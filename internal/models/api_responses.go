// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
// It provides a consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-29T12:00:00Z",
//	    "query_time_ms": 12
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339)
//   - QueryTimeMS: Engine computation time in milliseconds
//   - Degraded: Feed sections that could not be retrieved (partial degradation
//     annotation, see DiscoveryFeed); omitted when all sections succeeded
type Metadata struct {
	Timestamp   time.Time     `json:"timestamp"`
	QueryTimeMS int64         `json:"query_time_ms,omitempty"`
	Degraded    []FeedSection `json:"degraded,omitempty"`
}

// APIError represents an error response with structured detail.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - RETRIEVAL_ERROR: The catalog/index collaborator failed; the caller
//     should render a retryable error state, never an empty result list
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
