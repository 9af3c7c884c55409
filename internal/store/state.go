// Package store is the application state container. State is split into
// independent slices that change only through actions applied one at a time.
package store

import (
	"github.com/countries-explorer/explorer/internal/model"
)

// Status is the lifecycle of a slice's most recent fetch.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// CountriesSlice holds the catalog and the selected country.
type CountriesSlice struct {
	Items     []model.Country `json:"items"`
	Selected  *model.Country  `json:"selected,omitempty"`
	Status    Status          `json:"status"`
	Error     string          `json:"error,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Version   uint64          `json:"version"`
}

// FavouritesSlice holds the signed-in user's favourites, newest first.
type FavouritesSlice struct {
	Items     []model.Favourite `json:"items"`
	Status    Status            `json:"status"`
	Error     string            `json:"error,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Version   uint64            `json:"version"`
	// Mutations counts add/remove requests still in flight.
	Mutations int `json:"mutations"`
}

// ProfileSlice holds the signed-in user.
type ProfileSlice struct {
	User   *model.User `json:"user,omitempty"`
	Status Status      `json:"status"`
}

// State is the whole store.
type State struct {
	Countries  CountriesSlice  `json:"countries"`
	Favourites FavouritesSlice `json:"favourites"`
	Profile    ProfileSlice    `json:"profile"`
}

// InitialState returns an empty store with every slice idle.
func InitialState() State {
	return State{
		Countries:  CountriesSlice{Items: []model.Country{}, Status: StatusIdle},
		Favourites: FavouritesSlice{Items: []model.Favourite{}, Status: StatusIdle},
		Profile:    ProfileSlice{Status: StatusIdle},
	}
}

// Ready reports whether both catalog and favourites have been loaded.
func (s State) Ready() bool {
	return s.Countries.Status == StatusFulfilled && s.Favourites.Status == StatusFulfilled
}

// clone copies the slices so a snapshot shares no backing arrays with the
// live state.
func (s State) clone() State {
	out := s
	out.Countries.Items = append([]model.Country(nil), s.Countries.Items...)
	if s.Countries.Selected != nil {
		sel := *s.Countries.Selected
		out.Countries.Selected = &sel
	}
	out.Favourites.Items = append([]model.Favourite(nil), s.Favourites.Items...)
	if s.Profile.User != nil {
		u := *s.Profile.User
		out.Profile.User = &u
	}
	if out.Countries.Items == nil {
		out.Countries.Items = []model.Country{}
	}
	if out.Favourites.Items == nil {
		out.Favourites.Items = []model.Favourite{}
	}
	return out
}
