// Package openmeteo implements domain.WeatherSource against the
// Open-Meteo forecast API. The API requires no credentials, so the
// client only needs a base URL and a timeout.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// DefaultBaseURL is the public Open-Meteo endpoint.
const DefaultBaseURL = "https://api.open-meteo.com"

// Client implements domain.WeatherSource using the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. rps bounds outbound request
// rate; Open-Meteo's free tier throttles aggressively above ~10 rps.
func NewClient(baseURL string, timeout time.Duration, rps float64, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// CurrentWeather fetches the current conditions at the given coordinate.
// Open-Meteo reports wind in km/h; the result is converted to m/s.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherObservation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"latitude":  {fmt.Sprintf("%.6f", lat)},
		"longitude": {fmt.Sprintf("%.6f", lon)},
		"current":   {"temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation"},
	}
	fullURL := c.baseURL + "/v1/forecast?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var meteoResp response
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("decode response: %w", err)
	}

	obs := domain.WeatherObservation{
		Conditions: domain.WeatherConditions{
			TemperatureC:        meteoResp.Current.Temperature2m,
			RelativeHumidityPct: meteoResp.Current.RelativeHumidity2m,
			// km/h to m/s.
			WindSpeedMS:        meteoResp.Current.WindSpeed10m / 3.6,
			PrecipitationMM24h: meteoResp.Current.Precipitation,
		},
		ElevationM: meteoResp.Elevation,
	}
	return obs, nil
}

// Open-Meteo API response types.

type response struct {
	Elevation float64 `json:"elevation"`
	Current   current `json:"current"`
}

type current struct {
	Temperature2m      float64 `json:"temperature_2m"`
	RelativeHumidity2m float64 `json:"relative_humidity_2m"`
	WindSpeed10m       float64 `json:"wind_speed_10m"`
	Precipitation      float64 `json:"precipitation"`
}
