// Package catalog fetches and filters the external lecture-video catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/logger"
)

const maxResponseBytes = 8 << 20

// Client fetches the catalog listing from the external endpoint.
// The endpoint returns either a JSON array of videos or an
// {"error": "..."} object; both non-2xx statuses and error payloads
// surface as UNAVAILABLE coded errors, never as panics.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *logger.Logger
}

// NewClient creates a catalog client for the given endpoint.
// Outbound requests are capped at 1/s with a small burst so a
// misbehaving frontend cannot hammer the upstream.
func NewClient(endpoint string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      log,
	}
}

// errorPayload is the upstream's failure shape.
type errorPayload struct {
	Error string `json:"error"`
}

// Fetch retrieves the full catalog listing.
func (c *Client) Fetch(ctx context.Context) ([]domain.Video, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "catalog endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("catalog fetch failed", "status", resp.StatusCode)
		return nil, errors.Unavailablef("catalog endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "read catalog response")
	}

	return decodeListing(body)
}

// decodeListing parses the upstream payload. The endpoint signals
// failure with an {"error": ...} object instead of a status code, so
// peek at the first token to pick the shape.
func decodeListing(body []byte) ([]domain.Video, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.Unavailable("catalog endpoint returned an empty body")
	}

	if trimmed[0] == '{' {
		var payload errorPayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnavailable, "parse catalog error payload")
		}
		if payload.Error != "" {
			return nil, errors.Unavailablef("catalog endpoint error: %s", payload.Error)
		}
		return nil, errors.Unavailable("catalog endpoint returned an unexpected object")
	}

	var videos []domain.Video
	if err := json.Unmarshal(trimmed, &videos); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "parse catalog listing")
	}
	return videos, nil
}
