// Package navigation decides auth-driven redirects.
// The decision is a pure function of the auth state and the route category;
// performing the redirect is left to a Router.
package navigation

import (
	"strings"
)

// State is the viewer's authentication state.
type State int

const (
	// Unresolved means the session has not been resolved yet.
	Unresolved State = iota
	// Anonymous means no valid session exists.
	Anonymous
	// Authenticated means a verified user is present.
	Authenticated
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Category is a class of routes that the policy treats alike.
type Category string

const (
	CategoryProtected Category = "protected"
	CategoryAuthOnly  Category = "auth-only"
	CategoryHome      Category = "home"
	CategoryOther     Category = "other"
)

// Default route targets.
const (
	LoginRoute   = "/login"
	LandingRoute = "/countries"
)

// Decision is the outcome of a policy evaluation.
// The zero value means stay on the current route.
type Decision struct {
	Redirect bool   `json:"redirect"`
	To       string `json:"to,omitempty"`
}

// Stay is the no-redirect decision.
var Stay = Decision{}

// RedirectTo builds a redirect decision.
func RedirectTo(route string) Decision {
	return Decision{Redirect: true, To: route}
}

// Decide applies the redirect table in priority order; the first match wins.
func Decide(state State, category Category) Decision {
	switch {
	case state == Unresolved:
		return Stay
	case state == Anonymous && category == CategoryProtected:
		return RedirectTo(LoginRoute)
	case state == Authenticated && category == CategoryAuthOnly:
		return RedirectTo(LandingRoute)
	case state == Authenticated && category == CategoryHome:
		return RedirectTo(LandingRoute)
	default:
		return Stay
	}
}

// Routes classifies request paths into categories.
type Routes struct {
	Protected []string
	AuthOnly  []string
	Home      string
}

// DefaultRoutes returns the application's route table.
func DefaultRoutes() Routes {
	return Routes{
		Protected: []string{"/protected", "/profile", "/favourites"},
		AuthOnly:  []string{LoginRoute},
		Home:      "/",
	}
}

// Classify returns the category of path. Protected routes also cover
// their subpaths.
func (r Routes) Classify(path string) Category {
	path = cleanPath(path)

	if path == r.Home {
		return CategoryHome
	}
	for _, p := range r.AuthOnly {
		if path == p {
			return CategoryAuthOnly
		}
	}
	for _, p := range r.Protected {
		if path == p || strings.HasPrefix(path, p+"/") {
			return CategoryProtected
		}
	}
	return CategoryOther
}

// Policy combines a route table with Decide.
type Policy struct {
	routes Routes
}

// NewPolicy creates a Policy over routes.
func NewPolicy(routes Routes) *Policy {
	return &Policy{routes: routes}
}

// Evaluate returns the decision for state at path.
// A redirect to the path the viewer is already on is reported as Stay.
func (p *Policy) Evaluate(state State, path string) Decision {
	d := Decide(state, p.routes.Classify(path))
	if d.Redirect && cleanPath(d.To) == cleanPath(path) {
		return Stay
	}
	return d
}

// Classify exposes the policy's route table.
func (p *Policy) Classify(path string) Category {
	return p.routes.Classify(path)
}

func cleanPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
