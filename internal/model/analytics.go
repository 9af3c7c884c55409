package model

// RegionStat is one bucket of the region histogram.
type RegionStat struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// LanguageStat counts how many favourite countries speak a language.
type LanguageStat struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// CurrencyStat counts how many favourite countries use a currency.
type CurrencyStat struct {
	Currency string `json:"currency"`
	Count    int    `json:"count"`
}

// PopulationStats summarizes population over matched favourites.
// Lowest ignores zero values and is nil when every value is zero.
type PopulationStats struct {
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
	Highest *int64  `json:"highest"`
	Lowest  *int64  `json:"lowest"`
}

// AreaStats summarizes area over matched favourites.
// Lowest ignores zero or absent values and is nil when none remain.
type AreaStats struct {
	Total   float64  `json:"total"`
	Average float64  `json:"average"`
	Highest *float64 `json:"highest"`
	Lowest  *float64 `json:"lowest"`
}

// AnalyticsSummary is derived from a favourites list joined to the catalog.
// It is never persisted.
type AnalyticsSummary struct {
	TotalFavourites    int             `json:"total_favourites"`
	RegionStats        []RegionStat    `json:"region_stats"`
	TotalPopulation    int64           `json:"total_population"`
	TotalArea          float64         `json:"total_area"`
	PopulationStats    PopulationStats `json:"population_stats"`
	AreaStats          AreaStats       `json:"area_stats"`
	LargestCountry     *Country        `json:"largest_country"`
	SmallestCountry    *Country        `json:"smallest_country"`
	LanguageStats      []LanguageStat  `json:"language_stats"`
	CurrencyStats      []CurrencyStat  `json:"currency_stats"`
	FavouriteCountries []Country       `json:"favourite_countries"`
}

// EmptyAnalyticsSummary returns the all-zero summary with non-nil slices.
func EmptyAnalyticsSummary() AnalyticsSummary {
	return AnalyticsSummary{
		RegionStats:        []RegionStat{},
		LanguageStats:      []LanguageStat{},
		CurrencyStats:      []CurrencyStat{},
		FavouriteCountries: []Country{},
	}
}
