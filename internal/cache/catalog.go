package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/countries-explorer/explorer/internal/model"
)

const (
	// catalogKey holds the normalized country catalog.
	catalogKey = "catalog:v1:all"
	// weatherPrefix is the Redis key prefix for weather by city.
	weatherPrefix = "weather:v1:"
)

// GetCatalog returns the cached catalog or ErrCacheMiss.
func (c *Cache) GetCatalog(ctx context.Context) ([]model.Country, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	var countries []model.Country
	if err := json.Unmarshal(data, &countries); err != nil || len(countries) == 0 {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}
	return countries, nil
}

// SetCatalog caches the catalog for ttl. Empty catalogs are not cached.
func (c *Cache) SetCatalog(ctx context.Context, countries []model.Country, ttl time.Duration) error {
	if len(countries) == 0 {
		return nil
	}
	data, err := json.Marshal(countries)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return c.client.Set(ctx, catalogKey, data, ttl).Err()
}

// DeleteCatalog drops the cached catalog.
func (c *Cache) DeleteCatalog(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

// GetWeather returns cached conditions for city or ErrCacheMiss.
func (c *Cache) GetWeather(ctx context.Context, city string) (*model.Weather, error) {
	data, err := c.client.Get(ctx, weatherKey(city)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get weather: %w", err)
	}

	var w model.Weather
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, ErrCacheMiss
	}
	return &w, nil
}

// SetWeather caches conditions for city.
func (c *Cache) SetWeather(ctx context.Context, city string, w *model.Weather, ttl time.Duration) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weather: %w", err)
	}
	return c.client.Set(ctx, weatherKey(city), data, ttl).Err()
}

// weatherKey builds a case-insensitive key for city.
func weatherKey(city string) string {
	return weatherPrefix + strings.ToLower(strings.TrimSpace(city))
}
