// Package model defines domain entities for the application.
package model

import (
	"strings"
)

// CountryName holds the display and official names of a country.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Currency is a single entry of a country's currency map.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Flags holds flag image URLs.
type Flags struct {
	SVG string `json:"svg,omitempty"`
	PNG string `json:"png,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Country is a catalog record in the normalized (v3) shape.
// Name.Common is the de facto join key; it is not guaranteed unique.
type Country struct {
	Name       CountryName         `json:"name"`
	CCA3       string              `json:"cca3,omitempty"`
	CIOC       string              `json:"cioc,omitempty"`
	Region     string              `json:"region,omitempty"`
	Subregion  string              `json:"subregion,omitempty"`
	Population int64               `json:"population"`
	Area       *float64            `json:"area,omitempty"` // nil when absent
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	Flags      Flags               `json:"flags"`
	Capital    []string            `json:"capital,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
}

// AreaOrZero returns the area, treating an absent value as 0.
func (c *Country) AreaOrZero() float64 {
	if c.Area == nil {
		return 0
	}
	return *c.Area
}

// PrimaryCapital returns the first listed capital city.
func (c *Country) PrimaryCapital() (string, bool) {
	for _, city := range c.Capital {
		if strings.TrimSpace(city) != "" {
			return city, true
		}
	}
	return "", false
}

// MatchesName reports whether name equals the common or official name,
// ignoring case.
func (c *Country) MatchesName(name string) bool {
	return strings.EqualFold(c.Name.Common, name) || strings.EqualFold(c.Name.Official, name)
}

// Slug returns the URL form of the common name ("United States" -> "united-states").
func (c *Country) Slug() string {
	return SlugFromName(c.Name.Common)
}

// SlugFromName lowercases a name and replaces spaces with hyphens.
func SlugFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// NameFromSlug reverses SlugFromName. The result is compared case-insensitively,
// so the original casing does not need to be recovered.
func NameFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// Float64 returns a pointer to v. Convenience for optional numeric fields.
func Float64(v float64) *float64 {
	return &v
}
