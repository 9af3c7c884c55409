package store

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Listener is called with the committed state after each dispatch.
type Listener func(State)

// Store serializes actions against a single State.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int

	entropy *ulid.MonotonicEntropy
}

// New returns a store in the initial state.
func New() *Store {
	return &Store{
		state:     InitialState(),
		listeners: make(map[int]Listener),
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// State returns a snapshot of the latest committed state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a and notifies listeners in registration order.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.clone()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return snapshot
}

// Subscribe registers fn. The returned function removes it and may be
// called more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// BeginFetchCountries marks the catalog pending and returns the request ID
// the matching fulfilled or rejected action must carry.
func (s *Store) BeginFetchCountries() string {
	id := s.newRequestID()
	s.Dispatch(FetchCountriesPending{RequestID: id})
	return id
}

// BeginFetchFavourites marks the favourites pending and returns the request
// ID the matching fulfilled or rejected action must carry.
func (s *Store) BeginFetchFavourites() string {
	id := s.newRequestID()
	s.Dispatch(FetchFavouritesPending{RequestID: id})
	return id
}

func (s *Store) newRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}
