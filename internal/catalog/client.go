// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/haverstock/trouvaille/internal/config"
	"github.com/haverstock/trouvaille/internal/discovery"
	"github.com/haverstock/trouvaille/internal/metrics"
	"github.com/haverstock/trouvaille/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read back
// for diagnostics.
const maxErrorBodySize = 64 * 1024

// ErrNotFound is returned when the catalog has no record for the requested ID.
var ErrNotFound = errors.New("catalog: not found")

// Client talks to the content catalog REST API. It implements
// discovery.CandidateSource.
//
// Requests authenticate with an API key header. HTTP 429 responses are
// retried with exponential backoff, honoring Retry-After when present.
// Safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// FetchCandidates returns up to limit items of the given kind matching the
// filters.
func (c *Client) FetchCandidates(ctx context.Context, kind models.ContentKind, filters discovery.CandidateFilters, limit int) ([]models.ContentItem, error) {
	params := url.Values{}
	params.Set("kind", string(kind))
	params.Set("limit", strconv.Itoa(limit))
	if filters.Category != "" {
		params.Set("category", filters.Category)
	}

	var out struct {
		Items []models.ContentItem `json:"items"`
	}
	if err := c.get(ctx, "content", "/api/v1/content", params, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// FetchVenue returns a single venue record.
func (c *Client) FetchVenue(ctx context.Context, id string) (*models.ContentItem, error) {
	var out struct {
		Item models.ContentItem `json:"item"`
	}
	if err := c.get(ctx, "venue", "/api/v1/venues/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// FetchSimilarVenues returns venues the catalog relates to the given one.
func (c *Client) FetchSimilarVenues(ctx context.Context, id string, limit int) ([]models.ContentItem, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var out struct {
		Items []models.ContentItem `json:"items"`
	}
	if err := c.get(ctx, "similar_venues", "/api/v1/venues/"+url.PathEscape(id)+"/similar", params, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// FetchRelatedArticles returns articles mentioning the venue.
func (c *Client) FetchRelatedArticles(ctx context.Context, venueID string, limit int) ([]models.ContentItem, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var out struct {
		Items []models.ContentItem `json:"items"`
	}
	if err := c.get(ctx, "related_articles", "/api/v1/venues/"+url.PathEscape(venueID)+"/articles", params, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// get performs an authenticated GET and decodes the JSON body into result.
// endpoint is the low-cardinality label used for metrics; path may carry IDs.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogFetch(endpoint, time.Since(start), err)
	}()
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doWithRateLimit(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("catalog %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body := readBodyForError(resp.Body)
		return fmt.Errorf("catalog %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("catalog %s: decode response: %w", path, err)
	}
	return nil
}

// doWithRateLimit retries HTTP 429 responses with exponential backoff.
// Waits are cancellable through the context.
func (c *Client) doWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = d
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
