// Package weather fetches current conditions for a capital city.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/countries-explorer/explorer/internal/metrics"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/upstream"
)

// DefaultBaseURL is the OpenWeatherMap current-weather API.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

var (
	// ErrNoCity is returned when there is no city to look up.
	ErrNoCity = errors.New("no city to look up")
	// ErrWeatherUnavailable is returned when the weather API fails.
	ErrWeatherUnavailable = errors.New("weather unavailable")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("weather api key not configured")
)

// Client calls the OpenWeatherMap API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient creates a weather client.
func NewClient(baseURL, apiKey string, httpClient *http.Client, recorder metrics.Recorder, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = upstream.NewHTTPClient(0)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		metrics: recorder,
		logger:  logger.With("component", "weather"),
		now:     time.Now,
	}
}

type currentResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current returns the current weather in city, in metric units.
func (c *Client) Current(ctx context.Context, city string) (*model.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		c.metrics.IncWeatherRequest("skipped")
		return nil, ErrNoCity
	}
	if c.apiKey == "" {
		c.metrics.IncWeatherRequest("skipped")
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	start := time.Now()
	var resp currentResponse
	err := upstream.GetJSON(ctx, c.http, c.baseURL+"/weather?"+q.Encode(), nil, &resp)
	c.metrics.ObserveUpstreamDuration("weather", time.Since(start))
	if err != nil {
		c.metrics.IncWeatherRequest("failed")
		c.logger.Debug("weather lookup failed", "city", city, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	c.metrics.IncWeatherRequest("success")

	w := &model.Weather{
		City:        city,
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		ObservedAt:  c.now().UTC(),
	}
	if resp.Name != "" {
		w.City = resp.Name
	}
	if resp.Dt > 0 {
		w.ObservedAt = time.Unix(resp.Dt, 0).UTC()
	}
	if len(resp.Weather) > 0 {
		w.Condition = resp.Weather[0].Main
		w.Description = resp.Weather[0].Description
		w.Icon = resp.Weather[0].Icon
	}
	return w, nil
}
