// Package catalog fetches the public country catalog and answers lookups
// against it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/countries-explorer/explorer/internal/metrics"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/upstream"
)

// DefaultBaseURL is the public restcountries API.
const DefaultBaseURL = "https://restcountries.com"

// catalogFields limits the v3.1 payload to what the explorer renders.
const catalogFields = "name,flags,population,capital,region,subregion,borders,cca3,cioc,area,languages,currencies,timezones"

// ErrCatalogUnavailable is returned when every catalog endpoint failed.
var ErrCatalogUnavailable = errors.New("country catalog unavailable")

// APIVersion selects the payload shape of an endpoint.
type APIVersion int

const (
	V3 APIVersion = iota
	V2
)

// Endpoint is one catalog source in fallback order.
type Endpoint struct {
	Name    string
	Path    string
	Version APIVersion
}

// DefaultEndpoints are tried in order until one yields a non-empty catalog.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "v3.1-fields", Path: "/v3.1/all?fields=" + catalogFields, Version: V3},
		{Name: "v3.1-all", Path: "/v3.1/all", Version: V3},
		{Name: "v2-all", Path: "/v2/all", Version: V2},
	}
}

// Client fetches the catalog over HTTP.
type Client struct {
	baseURL   string
	endpoints []Endpoint
	http      *http.Client
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewClient creates a catalog client for baseURL.
func NewClient(baseURL string, httpClient *http.Client, recorder metrics.Recorder, logger *slog.Logger) *Client {
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
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		http:      httpClient,
		metrics:   recorder,
		logger:    logger.With("component", "catalog"),
	}
}

// FetchAll returns the full catalog, falling back across endpoints.
// An endpoint that errors or returns an empty list is skipped.
func (c *Client) FetchAll(ctx context.Context) ([]model.Country, error) {
	var errs []error
	for i, ep := range c.endpoints {
		if i > 0 {
			c.metrics.IncCatalogFallback()
		}

		countries, err := c.fetch(ctx, ep)
		if err == nil && len(countries) == 0 {
			err = errors.New("empty catalog")
		}
		if err != nil {
			c.logger.Warn("catalog endpoint failed",
				"endpoint", ep.Name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c.metrics.IncCatalogFetch(ep.Name)
		return countries, nil
	}

	c.metrics.IncCatalogFetch("failed")
	return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, errors.Join(errs...))
}

func (c *Client) fetch(ctx context.Context, ep Endpoint) ([]model.Country, error) {
	start := time.Now()
	var body json.RawMessage
	err := upstream.GetJSON(ctx, c.http, c.baseURL+ep.Path, nil, &body)
	c.metrics.ObserveUpstreamDuration("catalog", time.Since(start))
	if err != nil {
		return nil, err
	}
	return Normalize(body, ep.Version)
}
