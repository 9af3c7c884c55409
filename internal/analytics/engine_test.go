package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countries-explorer/explorer/internal/model"
)

func country(name, region, subregion string, population int64, area *float64) model.Country {
	return model.Country{
		Name:       model.CountryName{Common: name, Official: name},
		Region:     region,
		Subregion:  subregion,
		Population: population,
		Area:       area,
	}
}

func favs(names ...string) []model.Favourite {
	out := make([]model.Favourite, len(names))
	for i, n := range names {
		out[i] = model.Favourite{CountryName: n}
	}
	return out
}

func TestCompute_SingleMatch(t *testing.T) {
	catalog := []model.Country{country("Korea", "Asia", "", 51000000, model.Float64(100000))}

	got := Compute(favs("Korea"), catalog)

	assert.Equal(t, 1, got.TotalFavourites)
	assert.Equal(t, int64(51000000), got.TotalPopulation)
	assert.Equal(t, []model.RegionStat{{Region: "Asia", Count: 1}}, got.RegionStats)
	require.NotNil(t, got.LargestCountry)
	assert.Equal(t, "Korea", got.LargestCountry.Name.Common)
	require.NotNil(t, got.SmallestCountry)
	assert.Equal(t, "Korea", got.SmallestCountry.Name.Common)
	assert.InDelta(t, 51000000.0, got.PopulationStats.Average, 0.001)
}

func TestCompute_UnmatchedFavourite(t *testing.T) {
	catalog := []model.Country{country("Korea", "Asia", "", 51000000, model.Float64(100000))}

	got := Compute(favs("Atlantis"), catalog)

	assert.Equal(t, 0, got.TotalFavourites)
	assert.Equal(t, int64(0), got.TotalPopulation)
	assert.Equal(t, 0.0, got.TotalArea)
	assert.Empty(t, got.RegionStats)
	assert.NotNil(t, got.RegionStats)
	assert.Nil(t, got.LargestCountry)
	assert.Nil(t, got.SmallestCountry)
	assert.Nil(t, got.PopulationStats.Lowest)
}

func TestCompute_EmptyInputs(t *testing.T) {
	catalog := []model.Country{country("Korea", "Asia", "", 1, nil)}

	tests := []struct {
		name       string
		favourites []model.Favourite
		countries  []model.Country
	}{
		{"no favourites", nil, catalog},
		{"catalog not loaded", favs("Korea"), nil},
		{"both empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.favourites, tt.countries)
			assert.Equal(t, model.EmptyAnalyticsSummary(), got)
		})
	}
}

func TestCompute_RegionFallbacks(t *testing.T) {
	catalog := []model.Country{
		country("France", "Europe", "Western Europe", 1, nil),
		country("Spain", "Europe", "", 1, nil),
		country("Nowhere", "", "", 1, nil),
	}

	got := Compute(favs("France", "Spain", "Nowhere"), catalog)

	assert.Equal(t, []model.RegionStat{
		{Region: "Western Europe", Count: 1},
		{Region: "Europe", Count: 1},
		{Region: "Other", Count: 1},
	}, got.RegionStats)
}

func TestCompute_RegionTiesKeepFirstEncounteredOrder(t *testing.T) {
	catalog := []model.Country{
		country("Japan", "Asia", "Eastern Asia", 1, nil),
		country("Peru", "Americas", "South America", 1, nil),
		country("Chile", "Americas", "South America", 1, nil),
		country("Kenya", "Africa", "Eastern Africa", 1, nil),
		country("China", "Asia", "Eastern Asia", 1, nil),
	}

	got := Compute(favs("Kenya", "Japan", "Peru", "Chile", "China"), catalog)

	assert.Equal(t, []model.RegionStat{
		{Region: "Eastern Asia", Count: 2},
		{Region: "South America", Count: 2},
		{Region: "Eastern Africa", Count: 1},
	}, got.RegionStats)
}

func TestCompute_RegionCountsSumToTotal(t *testing.T) {
	catalog := []model.Country{
		country("A", "R1", "", 10, model.Float64(1)),
		country("B", "R2", "S2", 20, model.Float64(2)),
		country("C", "", "", 30, nil),
		country("D", "R1", "", 40, model.Float64(4)),
	}

	got := Compute(favs("A", "B", "C", "D", "missing", "A"), catalog)

	sum := 0
	for _, r := range got.RegionStats {
		sum += r.Count
	}
	assert.Equal(t, got.TotalFavourites, sum)
	assert.Equal(t, 5, got.TotalFavourites)
	assert.Equal(t, int64(10+20+30+40+10), got.TotalPopulation)
}

func TestCompute_CaseSensitiveJoin(t *testing.T) {
	catalog := []model.Country{country("Korea", "Asia", "", 1, nil)}

	got := Compute(favs("korea"), catalog)

	assert.Equal(t, 0, got.TotalFavourites)
}

func TestCompute_AreaExtremes(t *testing.T) {
	catalog := []model.Country{
		country("Vatican", "Europe", "", 800, model.Float64(0.44)),
		country("Russia", "Europe", "", 144000000, model.Float64(17098242)),
		country("Unknown", "Europe", "", 0, nil),
		country("Zero", "Europe", "", 0, model.Float64(0)),
	}

	got := Compute(favs("Vatican", "Russia", "Unknown", "Zero"), catalog)

	require.NotNil(t, got.LargestCountry)
	assert.Equal(t, "Russia", got.LargestCountry.Name.Common)
	require.NotNil(t, got.SmallestCountry)
	assert.Equal(t, "Vatican", got.SmallestCountry.Name.Common)

	require.NotNil(t, got.AreaStats.Lowest)
	assert.InDelta(t, 0.44, *got.AreaStats.Lowest, 1e-9)
	require.NotNil(t, got.AreaStats.Highest)
	assert.InDelta(t, 17098242, *got.AreaStats.Highest, 1e-9)

	require.NotNil(t, got.PopulationStats.Lowest)
	assert.Equal(t, int64(800), *got.PopulationStats.Lowest)
	assert.Equal(t, int64(144000000), *got.PopulationStats.Highest)
	assert.InDelta(t, float64(144000800)/4, got.PopulationStats.Average, 1e-6)

	for _, c := range got.FavouriteCountries {
		assert.GreaterOrEqual(t, got.LargestCountry.AreaOrZero(), c.AreaOrZero())
	}
}

func TestCompute_AllAreasAbsent(t *testing.T) {
	catalog := []model.Country{
		country("A", "R", "", 0, nil),
		country("B", "R", "", 0, model.Float64(0)),
	}

	got := Compute(favs("A", "B"), catalog)

	assert.Nil(t, got.SmallestCountry)
	assert.Nil(t, got.AreaStats.Lowest)
	assert.Nil(t, got.PopulationStats.Lowest)
	assert.Equal(t, 0.0, got.TotalArea)
}

func TestCompute_LanguageAndCurrencyTop5(t *testing.T) {
	mk := func(name string, langs map[string]string, curs map[string]model.Currency) model.Country {
		c := country(name, "R", "", 1, nil)
		c.Languages = langs
		c.Currencies = curs
		return c
	}
	euro := model.Currency{Name: "Euro", Symbol: "€"}
	catalog := []model.Country{
		mk("France", map[string]string{"fra": "French"}, map[string]model.Currency{"EUR": euro}),
		mk("Belgium", map[string]string{"deu": "German", "fra": "French", "nld": "Dutch"}, map[string]model.Currency{"EUR": euro}),
		mk("Switzerland", map[string]string{"deu": "German", "fra": "French", "ita": "Italian", "roh": "Romansh"}, map[string]model.Currency{"CHF": {Name: "Swiss franc"}}),
		mk("Malta", map[string]string{"eng": "English", "mlt": "Maltese"}, map[string]model.Currency{"EUR": euro}),
	}

	got := Compute(favs("France", "Belgium", "Switzerland", "Malta"), catalog)

	require.Len(t, got.LanguageStats, 5)
	assert.Equal(t, model.LanguageStat{Language: "French", Count: 3}, got.LanguageStats[0])
	assert.Equal(t, model.LanguageStat{Language: "German", Count: 2}, got.LanguageStats[1])
	// Remaining ties follow first-encountered order.
	assert.Equal(t, "Dutch", got.LanguageStats[2].Language)
	assert.Equal(t, "Italian", got.LanguageStats[3].Language)
	assert.Equal(t, "Romansh", got.LanguageStats[4].Language)

	assert.Equal(t, []model.CurrencyStat{
		{Currency: "Euro", Count: 3},
		{Currency: "Swiss franc", Count: 1},
	}, got.CurrencyStats)
}

func TestCompute_Idempotent(t *testing.T) {
	catalog := []model.Country{
		country("A", "R1", "S1", 5, model.Float64(3)),
		country("B", "R2", "", 7, nil),
	}
	catalog[0].Languages = map[string]string{"x": "X", "y": "Y", "z": "Z"}
	in := favs("B", "A")

	first := Compute(in, catalog)
	second := Compute(in, catalog)

	assert.Equal(t, first, second)
	assert.Equal(t, "B", in[0].CountryName, "input must not be modified")
}

func TestComputeWithOptions_PreferCode(t *testing.T) {
	catalog := []model.Country{
		{Name: model.CountryName{Common: "Korea"}, CCA3: "PRK", Region: "Asia"},
		{Name: model.CountryName{Common: "South Korea"}, CCA3: "KOR", Region: "Asia", Subregion: "Eastern Asia"},
	}
	in := []model.Favourite{
		{CountryName: "Korea", CountryCode: "KOR"},
		{CountryName: "Korea"},
		{CountryName: "Korea", CountryCode: "XXX"},
	}

	byName := Compute(in, catalog)
	byCode := ComputeWithOptions(in, catalog, Options{PreferCode: true})

	assert.Equal(t, 3, byName.TotalFavourites)
	assert.Equal(t, "Korea", byName.FavouriteCountries[0].Name.Common)

	require.Equal(t, 3, byCode.TotalFavourites)
	assert.Equal(t, "South Korea", byCode.FavouriteCountries[0].Name.Common)
	assert.Equal(t, "Korea", byCode.FavouriteCountries[1].Name.Common)
	assert.Equal(t, "Korea", byCode.FavouriteCountries[2].Name.Common)
}

func TestMemo_RecomputesOnlyOnVersionChange(t *testing.T) {
	catalog := []model.Country{country("Korea", "Asia", "", 1, nil)}
	m := NewMemo(Options{})

	first := m.Get(Key{Favourites: 1, Countries: 1}, favs("Korea"), catalog)
	again := m.Get(Key{Favourites: 1, Countries: 1}, nil, nil)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, m.Runs())

	changed := m.Get(Key{Favourites: 2, Countries: 1}, nil, catalog)
	assert.Equal(t, 0, changed.TotalFavourites)
	assert.Equal(t, 2, m.Runs())
}
