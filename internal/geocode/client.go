// Package geocode provides the HTTP client for the external geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tripgateway/platform/config"
	"tripgateway/platform/logger"

	"golang.org/x/time/rate"
)

// Client is the HTTP client for the Nominatim search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a geocoding client. Requests are throttled to one per
// second per the public Nominatim usage policy.
func NewClient(cfg config.GeocoderConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetGeocoderTimeout()},
		baseURL:    cfg.GetGeocoderBaseURL(),
		userAgent:  cfg.GetGeocoderUserAgent(),
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		log:        log,
	}
}

// Search resolves a free-text address. A single best match is requested; an
// empty result slice means no match, which is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Match, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("geocoder request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("geocoder", resp.StatusCode, nil)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var rawResults []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		c.log.Error("failed to decode geocoder payload", "error", err)
		return nil, err
	}

	matches := make([]Match, 0, len(rawResults))
	for _, raw := range rawResults {
		match, ok := buildMatch(raw)
		if !ok {
			continue
		}

		matches = append(matches, match)
	}

	return matches, nil
}

func buildMatch(raw nominatimResult) (Match, bool) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return Match{}, false
	}

	lng, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return Match{}, false
	}

	return Match{
		Lat:         lat,
		Lng:         lng,
		DisplayName: raw.DisplayName,
	}, true
}
