package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFetcher struct {
	mu        sync.Mutex
	countries []model.Country
	err       error
	calls     int
}

func (f *fakeFetcher) FetchAll(context.Context) ([]model.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.countries, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeWeather struct {
	w     *model.Weather
	err   error
	calls []string
}

func (f *fakeWeather) Current(_ context.Context, city string) (*model.Weather, error) {
	f.calls = append(f.calls, city)
	return f.w, f.err
}

var errMiss = errors.New("miss")

type fakeCache struct {
	mu       sync.Mutex
	catalog  []model.Country
	weather  map[string]*model.Weather
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{weather: map[string]*model.Weather{}}
}

func (c *fakeCache) GetCatalog(context.Context) ([]model.Country, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog == nil {
		return nil, errMiss
	}
	return c.catalog, nil
}

func (c *fakeCache) SetCatalog(_ context.Context, countries []model.Country, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = countries
	c.setCalls++
	return nil
}

func (c *fakeCache) GetWeather(_ context.Context, city string) (*model.Weather, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.weather[city]
	if !ok {
		return nil, errMiss
	}
	return w, nil
}

func (c *fakeCache) SetWeather(_ context.Context, city string, w *model.Weather, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weather[city] = w
	return nil
}

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[string][]model.Favourite
	seq     int
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string][]model.Favourite{}}
}

func (r *fakeRepo) UpsertFavourite(_ context.Context, fav *model.Favourite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fav.UserID == "" || fav.CountryName == "" {
		return repository.ErrInvalidFavourite
	}
	r.seq++
	now := time.Unix(int64(r.seq), 0).UTC()
	rows := r.rows[fav.UserID]
	for i, existing := range rows {
		if existing.CountryName == fav.CountryName {
			fav.ID = existing.ID
			fav.CreatedAt = existing.CreatedAt
			fav.UpdatedAt = now
			rows[i] = *fav
			return nil
		}
	}
	fav.ID = "fav-" + fav.CountryName
	fav.CreatedAt = now
	fav.UpdatedAt = now
	r.rows[fav.UserID] = append(rows, *fav)
	return nil
}

func (r *fakeRepo) DeleteFavouriteByName(_ context.Context, userID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.rows[userID]
	for i, f := range rows {
		if f.CountryName == name {
			r.rows[userID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrFavouriteNotFound
}

func (r *fakeRepo) ListFavourites(_ context.Context, userID string) ([]model.Favourite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := append([]model.Favourite{}, r.rows[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func testCatalog() []model.Country {
	return []model.Country{
		{
			Name:       model.CountryName{Common: "South Korea", Official: "Republic of Korea"},
			CCA3:       "KOR",
			Region:     "Asia",
			Subregion:  "Eastern Asia",
			Population: 51_780_579,
			Area:       model.Float64(100_210),
			Capital:    []string{"Seoul"},
			Borders:    []string{"PRK"},
			Languages:  map[string]string{"kor": "Korean"},
			Currencies: map[string]model.Currency{"KRW": {Name: "South Korean won", Symbol: "₩"}},
		},
		{
			Name:       model.CountryName{Common: "North Korea", Official: "Democratic People's Republic of Korea"},
			CCA3:       "PRK",
			Region:     "Asia",
			Subregion:  "Eastern Asia",
			Population: 25_778_815,
			Area:       model.Float64(120_538),
			Capital:    []string{"Pyongyang"},
			Borders:    []string{"CHN", "KOR", "RUS"},
		},
		{
			Name:       model.CountryName{Common: "Antarctica", Official: "Antarctica"},
			CCA3:       "ATA",
			Region:     "Antarctic",
			Population: 1_000,
		},
	}
}
