package catalog

import (
	"sort"
	"strings"

	"github.com/countries-explorer/explorer/internal/model"
)

// FindByName returns the first country whose common or official name
// matches name, ignoring case.
func FindByName(countries []model.Country, name string) (model.Country, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Country{}, false
	}
	for _, c := range countries {
		if c.MatchesName(name) {
			return c, true
		}
	}
	return model.Country{}, false
}

// FindBySlug resolves a URL slug ("united-states") to a country.
func FindBySlug(countries []model.Country, slug string) (model.Country, bool) {
	return FindByName(countries, model.NameFromSlug(slug))
}

// FindByCode matches cca3 or cioc, ignoring case.
func FindByCode(countries []model.Country, code string) (model.Country, bool) {
	if code == "" {
		return model.Country{}, false
	}
	for _, c := range countries {
		if strings.EqualFold(c.CCA3, code) || (c.CIOC != "" && strings.EqualFold(c.CIOC, code)) {
			return c, true
		}
	}
	return model.Country{}, false
}

// Borders resolves the border codes of country. Unknown codes are skipped.
func Borders(countries []model.Country, country model.Country) []model.Country {
	out := make([]model.Country, 0, len(country.Borders))
	for _, code := range country.Borders {
		if b, ok := FindByCode(countries, code); ok {
			out = append(out, b)
		}
	}
	return out
}

// SortOrder orders search results.
type SortOrder string

const (
	SortNone           SortOrder = ""
	SortNameAsc        SortOrder = "name"
	SortNameDesc       SortOrder = "-name"
	SortPopulationAsc  SortOrder = "population"
	SortPopulationDesc SortOrder = "-population"
	SortAreaAsc        SortOrder = "area"
	SortAreaDesc       SortOrder = "-area"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortNone, SortNameAsc, SortNameDesc, SortPopulationAsc, SortPopulationDesc, SortAreaAsc, SortAreaDesc:
		return true
	}
	return false
}

// Query filters the catalog.
type Query struct {
	// Name matches a substring of the common or official name.
	Name string
	// Region matches exactly, ignoring case.
	Region string
	Sort   SortOrder
}

// Search returns the countries matching q. The input is not modified.
func Search(countries []model.Country, q Query) []model.Country {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	region := strings.TrimSpace(q.Region)

	out := make([]model.Country, 0, len(countries))
	for _, c := range countries {
		if region != "" && !strings.EqualFold(c.Region, region) {
			continue
		}
		if name != "" &&
			!strings.Contains(strings.ToLower(c.Name.Common), name) &&
			!strings.Contains(strings.ToLower(c.Name.Official), name) {
			continue
		}
		out = append(out, c)
	}

	switch q.Sort {
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name.Common < out[j].Name.Common })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name.Common > out[j].Name.Common })
	case SortPopulationAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Population < out[j].Population })
	case SortPopulationDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Population > out[j].Population })
	case SortAreaAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AreaOrZero() < out[j].AreaOrZero() })
	case SortAreaDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AreaOrZero() > out[j].AreaOrZero() })
	}
	return out
}

// Regions lists the distinct non-empty regions in catalog order.
func Regions(countries []model.Country) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range countries {
		if c.Region == "" || seen[c.Region] {
			continue
		}
		seen[c.Region] = true
		out = append(out, c.Region)
	}
	return out
}
