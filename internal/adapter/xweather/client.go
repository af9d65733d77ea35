// Package xweather implements domain.LightningSource against the
// Xweather (Aeris) lightning API.
package xweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// DefaultBaseURL is the public Xweather data endpoint.
const DefaultBaseURL = "https://data.api.xweather.com"

const (
	searchRadius = "50mi"
	searchWindow = "-24hours"
)

// Client implements domain.LightningSource using the Xweather API.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	baseURL      string
	logger       *slog.Logger
}

// NewClient creates an Xweather lightning client.
func NewClient(clientID, clientSecret string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
}

// RecentActivity reports lightning strikes within 50 miles of the
// coordinate over the last 24 hours.
func (c *Client) RecentActivity(ctx context.Context, lat, lon float64) (domain.LightningActivity, error) {
	params := url.Values{
		"p":             {fmt.Sprintf("%.6f,%.6f", lat, lon)},
		"radius":        {searchRadius},
		"from":          {searchWindow},
		"limit":         {"250"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	fullURL := c.baseURL + "/lightning/closest?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.LightningActivity{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.LightningActivity{}, fmt.Errorf("lightning request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.LightningActivity{}, fmt.Errorf("xweather API error: status %d: %s", resp.StatusCode, body)
	}

	var xwResp response
	if err := json.NewDecoder(resp.Body).Decode(&xwResp); err != nil {
		return domain.LightningActivity{}, fmt.Errorf("decode response: %w", err)
	}

	// Xweather signals "no strikes found" as an unsuccessful response
	// with a warn-level code rather than an empty result set.
	if !xwResp.Success {
		if xwResp.Error != nil && xwResp.Error.Code == "warn_no_data" {
			return domain.LightningActivity{}, nil
		}
		code := "unknown"
		if xwResp.Error != nil {
			code = xwResp.Error.Code
		}
		return domain.LightningActivity{}, fmt.Errorf("xweather API error: %s", code)
	}

	n := len(xwResp.Response)
	return domain.LightningActivity{
		Detected:       n > 0,
		StrikeCount24h: n,
	}, nil
}

// Xweather API response types.

type response struct {
	Success  bool      `json:"success"`
	Error    *apiError `json:"error"`
	Response []strike  `json:"response"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type strike struct {
	ID string `json:"id"`
}
