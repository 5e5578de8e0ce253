// Package geocoding resolves venue addresses to coordinates through a
// Nominatim compatible search API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/munera-collective/munera-platform/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrNoMatch = errors.New("no geocoding match")

type Geocoder interface {
	// Geocode returns the coordinates of the best match for the query.
	Geocode(ctx context.Context, query string) (lat, lng float64, err error)
}

type nominatim struct {
	client    *http.Client
	baseURL   string
	country   string
	userAgent string
}

func NewNominatim(cfg config.Geocoding) Geocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &nominatim{
		client:    &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		country:   cfg.Country,
		userAgent: cfg.UserAgent,
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *nominatim) Geocode(ctx context.Context, query string) (float64, float64, error) {
	q := strings.TrimSpace(query)
	if n.country != "" {
		q += ", " + n.country
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding request: unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return 0, 0, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(places) == 0 {
		return 0, 0, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude: %w", err)
	}

	return lat, lng, nil
}
