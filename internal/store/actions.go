package store

import (
	"github.com/countries-explorer/explorer/internal/model"
)

// Action is a state transition. Only the types in this package implement it.
type Action interface {
	apply(State) State
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s.clone())
}

// FetchCountriesPending starts a catalog fetch identified by RequestID.
type FetchCountriesPending struct{ RequestID string }

func (a FetchCountriesPending) apply(s State) State {
	s.Countries.Status = StatusPending
	s.Countries.Error = ""
	s.Countries.RequestID = a.RequestID
	return s
}

// FetchCountriesFulfilled delivers the catalog.
type FetchCountriesFulfilled struct {
	RequestID string
	Countries []model.Country
}

func (a FetchCountriesFulfilled) apply(s State) State {
	if a.RequestID != s.Countries.RequestID {
		return s
	}
	s.Countries.Items = append([]model.Country{}, a.Countries...)
	s.Countries.Status = StatusFulfilled
	s.Countries.Error = ""
	s.Countries.Version++
	return s
}

// FetchCountriesRejected records a failed catalog fetch. Items loaded
// earlier are kept.
type FetchCountriesRejected struct {
	RequestID string
	Err       error
}

func (a FetchCountriesRejected) apply(s State) State {
	if a.RequestID != s.Countries.RequestID {
		return s
	}
	s.Countries.Status = StatusRejected
	s.Countries.Error = errorString(a.Err)
	return s
}

// SelectCountry sets the country shown in the detail view.
type SelectCountry struct{ Country model.Country }

func (a SelectCountry) apply(s State) State {
	c := a.Country
	s.Countries.Selected = &c
	return s
}

// ClearSelectedCountry clears the detail view.
type ClearSelectedCountry struct{}

func (ClearSelectedCountry) apply(s State) State {
	s.Countries.Selected = nil
	return s
}

// FetchFavouritesPending starts a favourites fetch identified by RequestID.
type FetchFavouritesPending struct{ RequestID string }

func (a FetchFavouritesPending) apply(s State) State {
	s.Favourites.Status = StatusPending
	s.Favourites.Error = ""
	s.Favourites.RequestID = a.RequestID
	return s
}

// FetchFavouritesFulfilled delivers the user's favourites.
type FetchFavouritesFulfilled struct {
	RequestID  string
	Favourites []model.Favourite
}

func (a FetchFavouritesFulfilled) apply(s State) State {
	if a.RequestID != s.Favourites.RequestID {
		return s
	}
	s.Favourites.Items = append([]model.Favourite{}, a.Favourites...)
	s.Favourites.Status = StatusFulfilled
	s.Favourites.Error = ""
	s.Favourites.Version++
	return s
}

// FetchFavouritesRejected records a failed favourites fetch.
type FetchFavouritesRejected struct {
	RequestID string
	Err       error
}

func (a FetchFavouritesRejected) apply(s State) State {
	if a.RequestID != s.Favourites.RequestID {
		return s
	}
	s.Favourites.Status = StatusRejected
	s.Favourites.Error = errorString(a.Err)
	return s
}

// AddFavouritePending marks an add in flight.
type AddFavouritePending struct{ CountryName string }

func (AddFavouritePending) apply(s State) State {
	s.Favourites.Mutations++
	return s
}

// AddFavouriteFulfilled stores the saved favourite. An existing entry with
// the same country name is replaced in place; a new one goes first.
type AddFavouriteFulfilled struct{ Favourite model.Favourite }

func (a AddFavouriteFulfilled) apply(s State) State {
	s.Favourites.Mutations = decrement(s.Favourites.Mutations)
	for i, f := range s.Favourites.Items {
		if f.CountryName == a.Favourite.CountryName {
			s.Favourites.Items[i] = a.Favourite
			s.Favourites.Version++
			return s
		}
	}
	s.Favourites.Items = append([]model.Favourite{a.Favourite}, s.Favourites.Items...)
	s.Favourites.Version++
	return s
}

// AddFavouriteRejected records a failed add.
type AddFavouriteRejected struct {
	CountryName string
	Err         error
}

func (a AddFavouriteRejected) apply(s State) State {
	s.Favourites.Mutations = decrement(s.Favourites.Mutations)
	s.Favourites.Error = errorString(a.Err)
	return s
}

// RemoveFavouritePending marks a removal in flight.
type RemoveFavouritePending struct{ CountryName string }

func (RemoveFavouritePending) apply(s State) State {
	s.Favourites.Mutations++
	return s
}

// RemoveFavouriteFulfilled drops every favourite with the country name.
type RemoveFavouriteFulfilled struct{ CountryName string }

func (a RemoveFavouriteFulfilled) apply(s State) State {
	s.Favourites.Mutations = decrement(s.Favourites.Mutations)
	kept := s.Favourites.Items[:0]
	for _, f := range s.Favourites.Items {
		if f.CountryName != a.CountryName {
			kept = append(kept, f)
		}
	}
	if len(kept) != len(s.Favourites.Items) {
		s.Favourites.Version++
	}
	s.Favourites.Items = kept
	return s
}

// RemoveFavouriteRejected records a failed removal.
type RemoveFavouriteRejected struct {
	CountryName string
	Err         error
}

func (a RemoveFavouriteRejected) apply(s State) State {
	s.Favourites.Mutations = decrement(s.Favourites.Mutations)
	s.Favourites.Error = errorString(a.Err)
	return s
}

// ProfileLoaded sets the signed-in user, or clears it when User is nil.
type ProfileLoaded struct{ User *model.User }

func (a ProfileLoaded) apply(s State) State {
	if a.User == nil {
		s.Profile = ProfileSlice{Status: StatusIdle}
		return s
	}
	u := *a.User
	s.Profile = ProfileSlice{User: &u, Status: StatusFulfilled}
	return s
}

// Reset returns the store to its initial state, keeping versions
// monotonic so memoized results are never reused across a reset.
type Reset struct{}

func (Reset) apply(s State) State {
	next := InitialState()
	next.Countries.Version = s.Countries.Version + 1
	next.Favourites.Version = s.Favourites.Version + 1
	return next
}

func errorString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func decrement(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}
