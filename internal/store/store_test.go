package store

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countries-explorer/explorer/internal/model"
)

func korea() model.Country {
	return model.Country{
		Name:   model.CountryName{Common: "South Korea", Official: "Republic of Korea"},
		CCA3:   "KOR",
		Region: "Asia",
	}
}

func fav(name string) model.Favourite {
	return model.Favourite{ID: name + "-id", UserID: "u1", CountryName: name}
}

func TestInitialState(t *testing.T) {
	s := New().State()

	assert.Equal(t, StatusIdle, s.Countries.Status)
	assert.Equal(t, StatusIdle, s.Favourites.Status)
	assert.Equal(t, StatusIdle, s.Profile.Status)
	assert.NotNil(t, s.Countries.Items)
	assert.NotNil(t, s.Favourites.Items)
	assert.False(t, s.Ready())
}

func TestFetchCountriesLifecycle(t *testing.T) {
	st := New()

	id := st.BeginFetchCountries()
	require.NotEmpty(t, id)
	assert.Equal(t, StatusPending, st.State().Countries.Status)

	got := st.Dispatch(FetchCountriesFulfilled{RequestID: id, Countries: []model.Country{korea()}})
	assert.Equal(t, StatusFulfilled, got.Countries.Status)
	assert.Len(t, got.Countries.Items, 1)
	assert.Equal(t, uint64(1), got.Countries.Version)

	id = st.BeginFetchCountries()
	got = st.Dispatch(FetchCountriesRejected{RequestID: id, Err: errors.New("network down")})
	assert.Equal(t, StatusRejected, got.Countries.Status)
	assert.Equal(t, "network down", got.Countries.Error)
	assert.Len(t, got.Countries.Items, 1, "previous catalog is kept on failure")
	assert.Equal(t, uint64(1), got.Countries.Version)
}

func TestLateResponsesAreIgnored(t *testing.T) {
	st := New()

	stale := st.BeginFetchFavourites()
	current := st.BeginFetchFavourites()
	require.NotEqual(t, stale, current)

	st.Dispatch(FetchFavouritesFulfilled{RequestID: current, Favourites: []model.Favourite{fav("Japan")}})
	got := st.Dispatch(FetchFavouritesFulfilled{RequestID: stale, Favourites: []model.Favourite{fav("Chile")}})

	require.Len(t, got.Favourites.Items, 1)
	assert.Equal(t, "Japan", got.Favourites.Items[0].CountryName)

	got = st.Dispatch(FetchFavouritesRejected{RequestID: stale, Err: errors.New("late")})
	assert.Equal(t, StatusFulfilled, got.Favourites.Status)

	got = st.Dispatch(FetchCountriesFulfilled{RequestID: "never-issued", Countries: []model.Country{korea()}})
	assert.Empty(t, got.Countries.Items)
	assert.Equal(t, StatusIdle, got.Countries.Status)
}

func TestFavouriteMutations(t *testing.T) {
	st := New()
	id := st.BeginFetchFavourites()
	st.Dispatch(FetchFavouritesFulfilled{RequestID: id, Favourites: []model.Favourite{fav("Japan")}})

	st.Dispatch(AddFavouritePending{CountryName: "Chile"})
	assert.Equal(t, 1, st.State().Favourites.Mutations)

	got := st.Dispatch(AddFavouriteFulfilled{Favourite: fav("Chile")})
	require.Len(t, got.Favourites.Items, 2)
	assert.Equal(t, "Chile", got.Favourites.Items[0].CountryName, "new favourites go first")
	assert.Equal(t, 0, got.Favourites.Mutations)

	updated := fav("Japan")
	updated.CountryCode = "JPN"
	got = st.Dispatch(AddFavouriteFulfilled{Favourite: updated})
	require.Len(t, got.Favourites.Items, 2, "same country name replaces in place")
	assert.Equal(t, "JPN", got.Favourites.Items[1].CountryCode)

	st.Dispatch(RemoveFavouritePending{CountryName: "Japan"})
	got = st.Dispatch(RemoveFavouriteFulfilled{CountryName: "Japan"})
	require.Len(t, got.Favourites.Items, 1)
	assert.Equal(t, "Chile", got.Favourites.Items[0].CountryName)

	before := got.Favourites.Version
	got = st.Dispatch(RemoveFavouriteFulfilled{CountryName: "Atlantis"})
	assert.Equal(t, before, got.Favourites.Version, "no-op removal keeps the version")

	got = st.Dispatch(AddFavouriteRejected{CountryName: "Peru", Err: errors.New("duplicate")})
	assert.Equal(t, "duplicate", got.Favourites.Error)
	assert.Equal(t, 0, got.Favourites.Mutations)
}

func TestSelectionAndProfile(t *testing.T) {
	st := New()

	got := st.Dispatch(SelectCountry{Country: korea()})
	require.NotNil(t, got.Countries.Selected)
	assert.Equal(t, "KOR", got.Countries.Selected.CCA3)

	got = st.Dispatch(ClearSelectedCountry{})
	assert.Nil(t, got.Countries.Selected)

	got = st.Dispatch(ProfileLoaded{User: &model.User{ID: "u1"}})
	assert.Equal(t, StatusFulfilled, got.Profile.Status)
	assert.Equal(t, "u1", got.Profile.User.ID)

	got = st.Dispatch(ProfileLoaded{})
	assert.Nil(t, got.Profile.User)
}

func TestReset(t *testing.T) {
	st := New()
	id := st.BeginFetchCountries()
	st.Dispatch(FetchCountriesFulfilled{RequestID: id, Countries: []model.Country{korea()}})

	got := st.Dispatch(Reset{})

	assert.Empty(t, got.Countries.Items)
	assert.Equal(t, StatusIdle, got.Countries.Status)
	assert.Equal(t, uint64(2), got.Countries.Version)

	got = st.Dispatch(FetchCountriesFulfilled{RequestID: id, Countries: []model.Country{korea()}})
	assert.Empty(t, got.Countries.Items, "requests issued before a reset are stale")
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := InitialState()
	s.Favourites.Items = []model.Favourite{fav("Japan"), fav("Chile")}

	_ = Reduce(s, RemoveFavouriteFulfilled{CountryName: "Japan"})

	assert.Equal(t, "Japan", s.Favourites.Items[0].CountryName)
	assert.Equal(t, s, Reduce(s, nil))
}

func TestSnapshotIsDetached(t *testing.T) {
	st := New()
	st.Dispatch(SelectCountry{Country: korea()})

	snap := st.State()
	snap.Countries.Selected.CCA3 = "XXX"

	assert.Equal(t, "KOR", st.State().Countries.Selected.CCA3)
}

func TestSubscribe(t *testing.T) {
	st := New()
	var statuses []Status
	unsubscribe := st.Subscribe(func(s State) { statuses = append(statuses, s.Countries.Status) })

	id := st.BeginFetchCountries()
	st.Dispatch(FetchCountriesRejected{RequestID: id, Err: errors.New("boom")})
	unsubscribe()
	unsubscribe()
	st.BeginFetchCountries()

	assert.Equal(t, []Status{StatusPending, StatusRejected}, statuses)
}

func TestConcurrentDispatch(t *testing.T) {
	st := New()
	id := st.BeginFetchFavourites()
	st.Dispatch(FetchFavouritesFulfilled{RequestID: id})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(AddFavouritePending{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, st.State().Favourites.Mutations)
}

func TestStateIsSerializable(t *testing.T) {
	st := New()
	id := st.BeginFetchCountries()
	st.Dispatch(FetchCountriesFulfilled{RequestID: id, Countries: []model.Country{korea()}})
	st.Dispatch(ProfileLoaded{User: &model.User{ID: "u1", Email: "u1@example.com"}})

	raw, err := json.Marshal(st.State())
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, StatusFulfilled, decoded.Countries.Status)
	assert.Equal(t, "South Korea", decoded.Countries.Items[0].Name.Common)
	assert.Equal(t, "u1@example.com", decoded.Profile.User.Email)
}
