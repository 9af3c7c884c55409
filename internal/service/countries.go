package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/countries-explorer/explorer/internal/catalog"
	"github.com/countries-explorer/explorer/internal/metrics"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/upstream"
	"github.com/countries-explorer/explorer/internal/weather"
)

const (
	defaultCatalogTTL = 24 * time.Hour
	defaultWeatherTTL = 10 * time.Minute
	// localCatalogTTL bounds how long a process keeps its decoded copy
	// before re-reading the shared cache.
	localCatalogTTL = 5 * time.Minute
)

// CountryServiceConfig tunes caching.
type CountryServiceConfig struct {
	CatalogTTL time.Duration
	WeatherTTL time.Duration
}

// CatalogSnapshot is a catalog with a process-local version that changes
// whenever the catalog is reloaded.
type CatalogSnapshot struct {
	Countries []model.Country
	Version   uint64
}

// CountryDetail is a country with its resolved borders and current weather
// in the first capital. A weather failure is reported in WeatherError and
// never fails the detail.
type CountryDetail struct {
	Country      model.Country   `json:"country"`
	Borders      []model.Country `json:"borders"`
	Weather      *model.Weather  `json:"weather,omitempty"`
	WeatherError string          `json:"weather_error,omitempty"`
}

// CountryService serves the catalog and country details.
type CountryService struct {
	fetcher CatalogFetcher
	weather WeatherFetcher
	cache   CatalogCache
	cfg     CountryServiceConfig
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	local    []model.Country
	localAt  time.Time
	version  uint64
	lastLoad error
}

// NewCountryService creates a new CountryService. cache may be nil.
func NewCountryService(fetcher CatalogFetcher, weatherFetcher WeatherFetcher, cache CatalogCache, cfg CountryServiceConfig, recorder metrics.Recorder, logger *slog.Logger) *CountryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = defaultCatalogTTL
	}
	if cfg.WeatherTTL <= 0 {
		cfg.WeatherTTL = defaultWeatherTTL
	}
	return &CountryService{
		fetcher: fetcher,
		weather: weatherFetcher,
		cache:   cache,
		cfg:     cfg,
		metrics: recorder,
		logger:  logger.With("component", "countries"),
		now:     time.Now,
	}
}

// Catalog returns the full catalog.
func (s *CountryService) Catalog(ctx context.Context) ([]model.Country, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Countries, nil
}

// Snapshot returns the catalog and its version. Reads go to the process
// copy, then the shared cache, then the upstream API. Concurrent misses
// share one upstream fetch.
func (s *CountryService) Snapshot(ctx context.Context) (CatalogSnapshot, error) {
	s.mu.RLock()
	if s.local != nil && s.now().Sub(s.localAt) < s.localTTL() {
		snap := CatalogSnapshot{Countries: s.local, Version: s.version}
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.group.Do("catalog", func() (any, error) {
		countries, err := s.load(context.WithoutCancel(ctx))
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastLoad = err
		if err != nil {
			return nil, err
		}
		s.local = countries
		s.localAt = s.now()
		s.version++
		return CatalogSnapshot{Countries: s.local, Version: s.version}, nil
	})
	if err != nil {
		return CatalogSnapshot{}, err
	}
	return v.(CatalogSnapshot), nil
}

// Ready reports the outcome of the most recent catalog load without
// loading anything itself.
func (s *CountryService) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.lastLoad != nil:
		return s.lastLoad
	case s.version == 0:
		return ErrCatalogNotLoaded
	}
	return nil
}

// Refresh drops the process copy so the next read reloads.
func (s *CountryService) Refresh() {
	s.mu.Lock()
	s.local = nil
	s.mu.Unlock()
}

// Warm loads the catalog and reloads it every interval until ctx is done.
// After a failed load the next attempt backs off from a few seconds up to
// interval.
func (s *CountryService) Warm(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = localCatalogTTL
	}
	timer := time.NewTimer(0)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		s.Refresh()
		wait := interval
		if _, err := s.Snapshot(ctx); err != nil {
			failures++
			wait = min(upstream.RetryDelay(failures), interval)
			s.logger.Warn("catalog warm-up failed", "error", err, "attempt", failures, "retry_in", wait)
		} else {
			failures = 0
		}
		timer.Reset(wait)
	}
}

func (s *CountryService) localTTL() time.Duration {
	if s.cfg.CatalogTTL < localCatalogTTL {
		return s.cfg.CatalogTTL
	}
	return localCatalogTTL
}

func (s *CountryService) load(ctx context.Context) ([]model.Country, error) {
	if s.cache != nil {
		countries, err := s.cache.GetCatalog(ctx)
		if err == nil {
			s.metrics.IncCacheHit("catalog")
			return countries, nil
		}
		s.metrics.IncCacheMiss("catalog")
	}

	countries, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, countries, s.cfg.CatalogTTL); err != nil {
			s.logger.Warn("failed to cache catalog", "error", err)
		}
	}
	return countries, nil
}

// List returns the catalog filtered and sorted by q.
func (s *CountryService) List(ctx context.Context, q catalog.Query) ([]model.Country, error) {
	countries, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(countries, q), nil
}

// Get resolves slug to a country with borders and weather.
func (s *CountryService) Get(ctx context.Context, slug string) (*CountryDetail, error) {
	countries, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	country, ok := catalog.FindBySlug(countries, slug)
	if !ok {
		return nil, ErrCountryNotFound
	}

	detail := &CountryDetail{
		Country: country,
		Borders: catalog.Borders(countries, country),
	}

	if capital, ok := country.PrimaryCapital(); ok {
		w, err := s.currentWeather(ctx, capital)
		if err != nil {
			detail.WeatherError = weatherMessage(err)
		} else {
			detail.Weather = w
		}
	}
	return detail, nil
}

func (s *CountryService) currentWeather(ctx context.Context, city string) (*model.Weather, error) {
	if s.weather == nil {
		return nil, weather.ErrNotConfigured
	}
	if s.cache != nil {
		if w, err := s.cache.GetWeather(ctx, city); err == nil {
			s.metrics.IncCacheHit("weather")
			return w, nil
		}
		s.metrics.IncCacheMiss("weather")
	}

	w, err := s.weather.Current(ctx, city)
	if err != nil {
		s.logger.Debug("weather lookup failed", "city", city, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWeather(ctx, city, w, s.cfg.WeatherTTL); err != nil {
			s.logger.Warn("failed to cache weather", "error", err)
		}
	}
	return w, nil
}

// weatherMessage is the user-facing text for a weather failure.
func weatherMessage(err error) string {
	switch {
	case errors.Is(err, weather.ErrNotConfigured):
		return "weather is not configured"
	case errors.Is(err, weather.ErrNoCity):
		return "no capital to look up"
	default:
		return "weather data unavailable"
	}
}
