// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/countries-explorer/explorer/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CountryListResponse is a filtered page of the catalog.
type CountryListResponse struct {
	Data  []CountrySummary `json:"data"`
	Count int              `json:"count"`
}

// CountrySummary is a country card in the list view.
type CountrySummary struct {
	Name       string   `json:"name"`
	Official   string   `json:"official_name"`
	Slug       string   `json:"slug"`
	CCA3       string   `json:"cca3"`
	Region     string   `json:"region"`
	Population int64    `json:"population"`
	Capital    []string `json:"capital"`
	Flag       string   `json:"flag,omitempty"`
}

// BorderResponse links to a neighbouring country.
type BorderResponse struct {
	Name string `json:"name"`
	CCA3 string `json:"cca3"`
	Slug string `json:"slug"`
}

// CountryDetailResponse is the country detail view.
type CountryDetailResponse struct {
	Country      model.Country    `json:"country"`
	Borders      []BorderResponse `json:"borders"`
	Weather      *model.Weather   `json:"weather,omitempty"`
	WeatherError string           `json:"weather_error,omitempty"`
}

// AddFavouriteRequest is the body of POST /api/v1/favourites.
type AddFavouriteRequest struct {
	CountryName string `json:"country_name"`
}

// FavouriteResponse represents a favourite in API responses.
type FavouriteResponse struct {
	ID          string         `json:"id"`
	CountryName string         `json:"country_name"`
	CountryCode string         `json:"country_code,omitempty"`
	Country     *model.Country `json:"country_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FavouriteListResponse lists favourites newest first.
type FavouriteListResponse struct {
	Data  []FavouriteResponse `json:"data"`
	Count int                 `json:"count"`
}

// UserResponse is the signed-in user.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LogoutResponse tells the client where to go after signing out.
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

// NavigationResponse is the redirect decision for a path.
type NavigationResponse struct {
	Path     string `json:"path"`
	State    string `json:"state"`
	Category string `json:"category"`
	Redirect bool   `json:"redirect"`
	To       string `json:"to,omitempty"`
}

// ToCountrySummary converts a catalog record into a list card.
func ToCountrySummary(c model.Country) CountrySummary {
	capital := c.Capital
	if capital == nil {
		capital = []string{}
	}
	return CountrySummary{
		Name:       c.Name.Common,
		Official:   c.Name.Official,
		Slug:       c.Slug(),
		CCA3:       c.CCA3,
		Region:     c.Region,
		Population: c.Population,
		Capital:    capital,
		Flag:       c.Flags.SVG,
	}
}

// ToCountryListResponse converts search results.
func ToCountryListResponse(countries []model.Country) CountryListResponse {
	data := make([]CountrySummary, 0, len(countries))
	for _, c := range countries {
		data = append(data, ToCountrySummary(c))
	}
	return CountryListResponse{Data: data, Count: len(data)}
}

// ToBorders converts resolved border records.
func ToBorders(countries []model.Country) []BorderResponse {
	out := make([]BorderResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, BorderResponse{Name: c.Name.Common, CCA3: c.CCA3, Slug: c.Slug()})
	}
	return out
}

// ToFavouriteResponse converts a Favourite model.
func ToFavouriteResponse(f model.Favourite) FavouriteResponse {
	return FavouriteResponse{
		ID:          f.ID,
		CountryName: f.CountryName,
		CountryCode: f.CountryCode,
		Country:     f.Country,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToFavouriteListResponse converts a favourites list.
func ToFavouriteListResponse(favs []model.Favourite) FavouriteListResponse {
	data := make([]FavouriteResponse, 0, len(favs))
	for _, f := range favs {
		data = append(data, ToFavouriteResponse(f))
	}
	return FavouriteListResponse{Data: data, Count: len(data)}
}

// ToUserResponse converts a User model.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
