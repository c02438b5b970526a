// Package spotify implements ports.SpotifyProvider over the Spotify Web API.
package spotify

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

// DefaultBaseURL is the production Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Client is a Web API client bound to one user's OAuth http.Client.
type Client struct {
	rest *resty.Client
}

// compile-time interface assertion
var _ ports.SpotifyProvider = (*Client)(nil)

// NewClient wraps httpClient, which must already attach the user's token.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{rest: rc}
}

// get performs one GET and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context, op, path string, query map[string]string) ([]byte, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, &ports.FetchError{Op: op, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &ports.FetchError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			RetryAfter: parseRetryAfter(resp.Header()),
		}
	}

	return resp.Body(), nil
}

func parseRetryAfter(h http.Header) time.Duration {
	retryAfter := h.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}
