package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// ReverseClient resolves coordinates to a country code through the Nominatim
// reverse geocoding API. Nominatim's usage policy caps anonymous clients at
// one request per second, so every call goes through a rate limiter.
type ReverseClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

func NewReverseClient(baseURL string, timeout time.Duration) *ReverseClient {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &ReverseClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		userAgent: "gdacs-viewer/1.0",
	}
}

// CountryCode reverse-geocodes a coordinate pair to an ISO alpha-2 country
// code. Coordinates that resolve to no country (open ocean) return the "un"
// sentinel rather than an error.
func (c *ReverseClient) CountryCode(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	params := url.Values{
		"format": {"geocodejson"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":   {"3"},
	}
	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data geocodeJSON
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("error decoding resp.Body: %w", err)
	}

	if len(data.Features) == 0 {
		return "un", nil
	}
	return data.Features[0].Properties.Geocoding.CountryCode, nil
}

// Nominatim geocodejson response types.

type geocodeJSON struct {
	Features []geocodeFeature `json:"features"`
}

type geocodeFeature struct {
	Properties geocodeProperties `json:"properties"`
}

type geocodeProperties struct {
	Geocoding geocodeInfo `json:"geocoding"`
}

type geocodeInfo struct {
	CountryCode string `json:"country_code"`
}
