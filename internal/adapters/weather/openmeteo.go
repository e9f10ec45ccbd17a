package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

const (
	DefaultBaseURL = "https://api.open-meteo.com"
	DefaultTimeout = 20 * time.Second
	DefaultRetries = 3

	hPaToMmHg       = 0.75006
	defaultPressure = 1013.0

	currentFields = "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m"
)

var compass = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
}

// Client fetches current conditions from the Open-Meteo forecast API.
type Client struct {
	http    *http.Client
	baseURL string
	retries int
	backoff time.Duration
	logger  *types.Logger
}

func NewClient(opts Options, logger *types.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		retries: opts.Retries,
		backoff: opts.RetryBackoff,
		logger:  logger,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Pressure      *float64 `json:"surface_pressure"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// Current returns the current weather at the given point. 5xx responses and
// transport errors are retried with exponential backoff.
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (*dto.WeatherReading, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("current", currentFields)
	query.Set("wind_speed_unit", "ms")
	query.Set("timezone", "auto")
	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		reading, retry, err := c.fetch(ctx, endpoint)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		if !retry {
			break
		}
		if c.logger != nil {
			c.logger.Debugf("open-meteo attempt %d failed: %v", attempt+1, err)
		}
	}
	return nil, fmt.Errorf("%w: %v", errorz.ErrWeatherProvider, lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*dto.WeatherReading, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("open-meteo returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("open-meteo returned %s: %s", resp.Status, body)
	}

	var forecast forecastResponse
	if err = json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, false, fmt.Errorf("decode open-meteo response: %w", err)
	}

	current := forecast.Current
	return &dto.WeatherReading{
		TemperatureCelsius: valueOr(current.Temperature, 0),
		HumidityPercent:    valueOr(current.Humidity, 0),
		PressureMmHg:       round2(valueOr(current.Pressure, defaultPressure) * hPaToMmHg),
		WindSpeedMs:        valueOr(current.WindSpeed, 0),
		WindDirection:      WindDirection(valueOr(current.WindDirection, 0)),
	}, false, nil
}

// WindDirection converts degrees to an 8-point compass direction.
func WindDirection(degrees float64) string {
	index := int(math.Round(degrees/45)) % len(compass)
	if index < 0 {
		index += len(compass)
	}
	return compass[index]
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
