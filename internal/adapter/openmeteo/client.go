// Package openmeteo provides current wind and temperature observations from
// the Open-Meteo forecast API, used to backfill records whose report page
// omitted those metrics.
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

	"github.com/powderline/snowday/internal/domain"
)

// Client fetches current conditions for a coordinate pair.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. The API requires no credentials.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.open-meteo.com/v1/forecast",
		logger:  logger,
	}
}

// Current returns the latest observed temperature and wind speed at a
// coordinate, already in Fahrenheit and mph.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.WeatherObservation, error) {
	params := url.Values{
		"latitude":         {fmt.Sprintf("%.4f", lat)},
		"longitude":        {fmt.Sprintf("%.4f", lon)},
		"current":          {"temperature_2m,wind_speed_10m"},
		"temperature_unit": {"fahrenheit"},
		"wind_speed_unit":  {"mph"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
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

	var weatherResp response
	if err := json.NewDecoder(resp.Body).Decode(&weatherResp); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.WeatherObservation{
		TemperatureF: weatherResp.Current.Temperature,
		WindSpeedMPH: weatherResp.Current.WindSpeed,
	}, nil
}

// Open-Meteo API response types.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Temperature *float64 `json:"temperature_2m"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
}
