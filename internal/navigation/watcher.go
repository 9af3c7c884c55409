package navigation

import "sync"

// Router performs a navigation side effect.
type Router interface {
	Push(route string)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(route string)

// Push calls f(route).
func (f RouterFunc) Push(route string) { f(route) }

// Watcher re-evaluates the policy whenever the auth state or location
// changes and forwards redirects to a Router. Back-to-back evaluations of
// the same inputs issue a redirect at most once; any change of state or
// path starts over.
type Watcher struct {
	mu      sync.Mutex
	policy  *Policy
	router  Router
	state   State
	path    string
	last    Decision
	lastKey watchKey
	seen    bool
}

type watchKey struct {
	state State
	path  string
}

// NewWatcher creates a Watcher starting at path in the Unresolved state.
func NewWatcher(policy *Policy, router Router, path string) *Watcher {
	return &Watcher{
		policy: policy,
		router: router,
		state:  Unresolved,
		path:   path,
	}
}

// SetState records a new auth state and re-evaluates.
func (w *Watcher) SetState(state State) Decision {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
	return w.evaluate()
}

// SetPath records a location change and re-evaluates.
func (w *Watcher) SetPath(path string) Decision {
	w.mu.Lock()
	w.path = path
	w.mu.Unlock()
	return w.evaluate()
}

// Current returns the decision for the current inputs without side effects.
func (w *Watcher) Current() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.policy.Evaluate(w.state, w.path)
}

func (w *Watcher) evaluate() Decision {
	w.mu.Lock()
	key := watchKey{state: w.state, path: w.path}
	d := w.policy.Evaluate(key.state, key.path)

	issue := d.Redirect && !(w.seen && w.lastKey == key && w.last == d)
	w.last = d
	w.lastKey = key
	w.seen = true
	router := w.router
	w.mu.Unlock()

	if issue && router != nil {
		router.Push(d.To)
	}
	return d
}
