// Package geocode is the HTTP client for the street-address-to-coordinate
// service. A failed lookup is a typed, user-facing failure; the caller keeps
// its last-known-good reference point.
package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client performs address geocoding.
type Client interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result is a successful geocode.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
}

// Failure is a collaborator-level geocoding failure carrying the service's
// user-facing message.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return "geocode: " + f.Message
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a geocoding client for the given endpoint.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type geocodeRequest struct {
	Address string `json:"address"`
}

type geocodeResponse struct {
	Success          bool   `json:"success"`
	Coordinates      string `json:"coordinates"` // "lat, lng"
	FormattedAddress string `json:"formattedAddress"`
	Message          string `json:"message"`
}

func (c *httpClient) Geocode(ctx context.Context, address string) (*Result, error) {
	if strings.TrimSpace(address) == "" {
		return nil, &Failure{Message: "no address provided"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	body, err := json.Marshal(geocodeRequest{Address: address})
	if err != nil {
		return nil, eris.Wrap(err, "geocode: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/geocode", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "geocode: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, eris.Wrap(err, "geocode: unmarshal response")
	}
	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "address could not be located"
		}
		return nil, &Failure{Message: msg}
	}

	lat, lng, err := ParseCoordinates(parsed.Coordinates)
	if err != nil {
		return nil, err
	}
	return &Result{
		Latitude:         lat,
		Longitude:        lng,
		FormattedAddress: parsed.FormattedAddress,
	}, nil
}

// ParseCoordinates splits the service's "lat, lng" pair format.
func ParseCoordinates(coords string) (lat, lng float64, err error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("geocode: malformed coordinates %q", coords)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geocode: parse latitude from %q", coords)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geocode: parse longitude from %q", coords)
	}
	return lat, lng, nil
}
