// Package analytics computes summary statistics over a user's favourite
// countries joined to the country catalog.
package analytics

import (
	"sort"

	"github.com/countries-explorer/explorer/internal/model"
)

const (
	// topN is the number of language and currency entries kept.
	topN = 5
	// otherRegion is the bucket for countries with neither subregion nor region.
	otherRegion = "Other"
)

// Options tunes how favourites are joined to the catalog.
type Options struct {
	// PreferCode matches favourites by their stored cca3 code first and
	// falls back to the common name. Rows written before codes were stored
	// only carry a name, so the name match is always kept.
	PreferCode bool
}

// Compute returns the summary for favourites joined to countries by
// country_name == name.common. It never fails: empty or unmatched input
// yields the zero summary. Neither argument is modified.
func Compute(favourites []model.Favourite, countries []model.Country) model.AnalyticsSummary {
	return ComputeWithOptions(favourites, countries, Options{})
}

// ComputeWithOptions is Compute with join options.
func ComputeWithOptions(favourites []model.Favourite, countries []model.Country, opts Options) model.AnalyticsSummary {
	if len(favourites) == 0 || len(countries) == 0 {
		return model.EmptyAnalyticsSummary()
	}

	matched := join(favourites, countries, opts)
	if len(matched) == 0 {
		return model.EmptyAnalyticsSummary()
	}

	summary := model.EmptyAnalyticsSummary()
	summary.TotalFavourites = len(matched)
	summary.RegionStats = regionStats(matched)
	summary.PopulationStats = populationStats(matched)
	summary.AreaStats = areaStats(matched)
	summary.TotalPopulation = summary.PopulationStats.Total
	summary.TotalArea = summary.AreaStats.Total
	summary.LargestCountry = largest(matched)
	summary.SmallestCountry = smallest(matched)
	summary.LanguageStats = languageStats(matched)
	summary.CurrencyStats = currencyStats(matched)
	summary.FavouriteCountries = matched

	return summary
}

// join resolves each favourite to its catalog record, dropping unmatched ones.
// The first catalog entry with a given name wins.
func join(favourites []model.Favourite, countries []model.Country, opts Options) []model.Country {
	byName := make(map[string]int, len(countries))
	byCode := make(map[string]int, len(countries))
	for i := range countries {
		if _, ok := byName[countries[i].Name.Common]; !ok {
			byName[countries[i].Name.Common] = i
		}
		if code := countries[i].CCA3; code != "" {
			if _, ok := byCode[code]; !ok {
				byCode[code] = i
			}
		}
	}

	matched := make([]model.Country, 0, len(favourites))
	for _, fav := range favourites {
		if opts.PreferCode && fav.CountryCode != "" {
			if i, ok := byCode[fav.CountryCode]; ok {
				matched = append(matched, countries[i])
				continue
			}
		}
		if i, ok := byName[fav.CountryName]; ok {
			matched = append(matched, countries[i])
		}
	}
	return matched
}

func regionStats(countries []model.Country) []model.RegionStat {
	index := make(map[string]int)
	stats := make([]model.RegionStat, 0)

	for i := range countries {
		region := countries[i].Subregion
		if region == "" {
			region = countries[i].Region
		}
		if region == "" {
			region = otherRegion
		}

		if pos, ok := index[region]; ok {
			stats[pos].Count++
			continue
		}
		index[region] = len(stats)
		stats = append(stats, model.RegionStat{Region: region, Count: 1})
	}

	// Stable sort keeps first-encountered order among ties.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

func populationStats(countries []model.Country) model.PopulationStats {
	var stats model.PopulationStats
	var highest int64
	var lowest *int64

	for i := range countries {
		pop := countries[i].Population
		if pop < 0 {
			pop = 0
		}
		stats.Total += pop
		if i == 0 || pop > highest {
			highest = pop
		}
		if pop > 0 && (lowest == nil || pop < *lowest) {
			v := pop
			lowest = &v
		}
	}

	stats.Average = float64(stats.Total) / float64(len(countries))
	stats.Highest = &highest
	stats.Lowest = lowest
	return stats
}

func areaStats(countries []model.Country) model.AreaStats {
	var stats model.AreaStats
	var highest float64
	var lowest *float64

	for i := range countries {
		area := countries[i].AreaOrZero()
		stats.Total += area
		if i == 0 || area > highest {
			highest = area
		}
		if area > 0 && (lowest == nil || area < *lowest) {
			v := area
			lowest = &v
		}
	}

	stats.Average = stats.Total / float64(len(countries))
	stats.Highest = &highest
	stats.Lowest = lowest
	return stats
}

// largest returns the first country with the greatest positive area.
func largest(countries []model.Country) *model.Country {
	var found *model.Country
	for i := range countries {
		area := countries[i].AreaOrZero()
		if area <= 0 {
			continue
		}
		if found == nil || area > found.AreaOrZero() {
			c := countries[i]
			found = &c
		}
	}
	return found
}

// smallest returns the first country with the least positive area.
// Zero or absent areas are not candidates.
func smallest(countries []model.Country) *model.Country {
	var found *model.Country
	for i := range countries {
		area := countries[i].AreaOrZero()
		if area <= 0 {
			continue
		}
		if found == nil || area < found.AreaOrZero() {
			c := countries[i]
			found = &c
		}
	}
	return found
}

func languageStats(countries []model.Country) []model.LanguageStat {
	var counts counter
	for i := range countries {
		for _, code := range sortedKeys(countries[i].Languages) {
			counts.add(countries[i].Languages[code])
		}
	}

	top := counts.top(topN)
	stats := make([]model.LanguageStat, len(top))
	for i, e := range top {
		stats[i] = model.LanguageStat{Language: e.key, Count: e.count}
	}
	return stats
}

func currencyStats(countries []model.Country) []model.CurrencyStat {
	var counts counter
	for i := range countries {
		for _, code := range sortedKeys(countries[i].Currencies) {
			counts.add(countries[i].Currencies[code].Name)
		}
	}

	top := counts.top(topN)
	stats := make([]model.CurrencyStat, len(top))
	for i, e := range top {
		stats[i] = model.CurrencyStat{Currency: e.key, Count: e.count}
	}
	return stats
}

type entry struct {
	key   string
	count int
}

// counter counts keys while remembering first-insertion order.
type counter struct {
	index   map[string]int
	entries []entry
}

func (c *counter) add(key string) {
	if key == "" {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if pos, ok := c.index[key]; ok {
		c.entries[pos].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, entry{key: key, count: 1})
}

func (c *counter) top(n int) []entry {
	out := append([]entry(nil), c.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// sortedKeys gives map iteration a fixed order so results are reproducible.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
