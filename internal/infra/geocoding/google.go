// Package geocoding resolves shop addresses to coordinates.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

var (
	ErrNotFound    = errors.New("geocoding: address not found")
	ErrUnavailable = errors.New("geocoding: provider unavailable")
)

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// Client talks to a Google-compatible geocoding endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *Breaker
}

func NewClient(baseURL, apiKey string, breaker *Breaker) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if breaker == nil {
		breaker = NewBreaker(DefaultBreakerConfig())
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
	}
}

func (c *Client) Resolve(ctx context.Context, address string) (geo.Point, error) {
	var point geo.Point

	err := c.breaker.Execute(func() error {
		p, err := c.lookup(ctx, address)
		if err != nil {
			return err
		}
		point = p
		return nil
	}, countsAgainstBreaker)

	if errors.Is(err, ErrCircuitOpen) {
		log.Warn().Str("address", address).Msg("geocoding skipped, breaker open")
		return geo.Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return point, err
}

// A missing address is an answer, not a provider fault.
func countsAgainstBreaker(err error) bool {
	return !errors.Is(err, ErrNotFound)
}

func (c *Client) lookup(ctx context.Context, address string) (geo.Point, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Point{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geo.Point{}, ErrNotFound
	default:
		return geo.Point{}, fmt.Errorf("%w: %s %s", ErrUnavailable, body.Status, body.ErrorMessage)
	}

	if len(body.Results) == 0 {
		return geo.Point{}, ErrNotFound
	}

	loc := body.Results[0].Geometry.Location
	point := geo.Point{Lat: loc.Lat, Lng: loc.Lng}
	if (geo.Query{Origin: point, RadiusKm: 1}).Validate() != nil {
		return geo.Point{}, fmt.Errorf("%w: coordinates out of range", ErrUnavailable)
	}
	return point, nil
}

// NormalizeAddress is the cache key form of an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
