// Package routing is the HTTP client for the driving-distance table
// service. The service is optional: its absence never blocks results, the
// annotator falls back to straight-line distance.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Point is one coordinate pair in request order.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Client resolves driving distances from one origin to many destinations.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a routing client for the given endpoint.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tableRequest struct {
	Origin       Point   `json:"origin"`
	Destinations []Point `json:"destinations"`
}

type tableResponse struct {
	Success        bool      `json:"success"`
	DistancesMiles []float64 `json:"distances_miles"`
	Message        string    `json:"message"`
}

// Table returns one driving distance in miles per destination, aligned with
// the input order. A negative entry marks an unroutable destination.
func (c *Client) Table(ctx context.Context, originLat, originLng float64, dests [][2]float64) ([]float64, error) {
	if len(dests) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "routing: rate limit")
	}

	reqBody := tableRequest{
		Origin:       Point{Latitude: originLat, Longitude: originLng},
		Destinations: make([]Point, len(dests)),
	}
	for i, d := range dests {
		reqBody.Destinations[i] = Point{Latitude: d[0], Longitude: d[1]}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "routing: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/table", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "routing: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "routing: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "routing: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("routing: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed tableResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, eris.Wrap(err, "routing: unmarshal response")
	}
	if !parsed.Success {
		return nil, eris.Errorf("routing: %s", parsed.Message)
	}
	if len(parsed.DistancesMiles) != len(dests) {
		return nil, eris.Errorf("routing: got %d distances for %d destinations",
			len(parsed.DistancesMiles), len(dests))
	}
	return parsed.DistancesMiles, nil
}
