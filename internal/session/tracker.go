// Package session tracks the current authenticated identity for one
// request or connection. A Tracker mirrors the identity provider's session
// lifecycle; it is created per request and passed explicitly through the
// request context rather than held in a global.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/countries-explorer/explorer/internal/identity"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/navigation"
)

// EventType names a session-change notification.
type EventType string

const (
	EventInitialSession  EventType = "INITIAL_SESSION"
	EventSignedIn        EventType = "SIGNED_IN"
	EventSignedOut       EventType = "SIGNED_OUT"
	EventTokenRefreshed  EventType = "TOKEN_REFRESHED"
	EventUserUpdated     EventType = "USER_UPDATED"
	EventResolutionError EventType = "RESOLUTION_ERROR"
)

// Event is a session-change notification. Session is nil when signed out.
type Event struct {
	Type    EventType
	Session *model.Session
	Err     error
}

// State is a snapshot of the tracker.
type State struct {
	Session *model.Session
	Loading bool
	Err     error
}

// User returns the current user, or nil when anonymous.
func (s State) User() *model.User {
	if s.Session == nil {
		return nil
	}
	return &s.Session.User
}

// AuthState maps the snapshot onto the navigation states.
func (s State) AuthState() navigation.State {
	switch {
	case s.Loading:
		return navigation.Unresolved
	case s.Session == nil:
		return navigation.Anonymous
	default:
		return navigation.Authenticated
	}
}

// Listener is called with the new state after every applied event.
type Listener func(State)

// Tracker holds the session state and notifies listeners of changes.
type Tracker struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewTracker returns a Tracker in the loading state.
func NewTracker() *Tracker {
	return &Tracker{
		state:     State{Loading: true},
		listeners: make(map[int]Listener),
	}
}

// Resolve asks the provider for the current session and applies the result
// as the initial session. A missing or invalid token resolves to anonymous.
// A provider outage keeps the tracker loading, so redirect decisions are
// deferred instead of treating the viewer as signed out.
func (t *Tracker) Resolve(ctx context.Context, provider identity.Provider, accessToken string) State {
	if accessToken == "" {
		return t.Apply(Event{Type: EventInitialSession})
	}

	sess, err := provider.GetSession(ctx, accessToken)
	switch {
	case err == nil:
		return t.Apply(Event{Type: EventInitialSession, Session: sess})
	case errors.Is(err, identity.ErrProviderUnavailable):
		return t.Apply(Event{Type: EventResolutionError, Err: err})
	default:
		return t.Apply(Event{Type: EventInitialSession, Err: err})
	}
}

// Apply records an event and notifies listeners.
func (t *Tracker) Apply(ev Event) State {
	t.mu.Lock()
	switch ev.Type {
	case EventResolutionError:
		t.state = State{Loading: true, Err: ev.Err}
	case EventSignedOut:
		t.state = State{}
	default:
		t.state = State{Session: ev.Session, Err: ev.Err}
	}
	state := t.state
	listeners := make([]Listener, 0, len(t.listeners))
	for i := 0; i < t.nextID; i++ {
		if l, ok := t.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	t.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
	return state
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe registers fn for future changes. The returned function removes
// the listener and may be called more than once.
func (t *Tracker) Subscribe(fn Listener) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// SignOut ends the session with the provider and applies the sign-out
// locally even if the provider call fails.
func (t *Tracker) SignOut(ctx context.Context, provider identity.Provider) error {
	var err error
	if sess := t.State().Session; sess != nil {
		err = provider.SignOut(ctx, sess.AccessToken)
	}
	t.Apply(Event{Type: EventSignedOut})
	return err
}

type contextKey struct{}

// NewContext returns ctx carrying t.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tracker stored in ctx, or nil.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}

// UserFromContext returns the authenticated user in ctx, or nil.
func UserFromContext(ctx context.Context) *model.User {
	t := FromContext(ctx)
	if t == nil {
		return nil
	}
	return t.State().User()
}

// UserIDFromContext returns the authenticated user ID, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return ""
}

// Watch keeps a navigation watcher at path in sync with t. The watcher is
// seeded with the current state; stop detaches it.
func Watch(t *Tracker, policy *navigation.Policy, router navigation.Router, path string) (w *navigation.Watcher, stop func()) {
	w = navigation.NewWatcher(policy, router, path)
	stop = t.Subscribe(func(s State) { w.SetState(s.AuthState()) })
	w.SetState(t.State().AuthState())
	return w, stop
}
