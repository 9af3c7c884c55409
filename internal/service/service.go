// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/countries-explorer/explorer/internal/model"
)

// Service errors.
var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrCountryNotFound       = errors.New("country not found")
	ErrInvalidCountryName    = errors.New("invalid country name")
	ErrFavouriteNotFound     = errors.New("favourite not found")
	ErrCatalogUnavailable    = errors.New("country catalog unavailable")
	ErrCatalogNotLoaded      = errors.New("country catalog not loaded yet")
	ErrFavouritesUnavailable = errors.New("favourites unavailable")
	ErrIdentityUnavailable   = errors.New("identity provider unavailable")
)

// CatalogFetcher loads the full country catalog from its source.
type CatalogFetcher interface {
	FetchAll(ctx context.Context) ([]model.Country, error)
}

// WeatherFetcher looks up current conditions for a city.
type WeatherFetcher interface {
	Current(ctx context.Context, city string) (*model.Weather, error)
}

// CatalogCache is the shared catalog and weather cache.
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]model.Country, error)
	SetCatalog(ctx context.Context, countries []model.Country, ttl time.Duration) error
	GetWeather(ctx context.Context, city string) (*model.Weather, error)
	SetWeather(ctx context.Context, city string, w *model.Weather, ttl time.Duration) error
}

// FavouriteStore persists favourites.
type FavouriteStore interface {
	UpsertFavourite(ctx context.Context, fav *model.Favourite) error
	DeleteFavouriteByName(ctx context.Context, userID, countryName string) error
	ListFavourites(ctx context.Context, userID string) ([]model.Favourite, error)
}
