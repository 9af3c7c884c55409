package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/countries-explorer/explorer/internal/identity"
	"github.com/countries-explorer/explorer/internal/navigation"
	"github.com/countries-explorer/explorer/internal/session"
)

// AccessTokenCookie is read when no Authorization header is sent.
const AccessTokenCookie = "access_token"

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Provider identity.Provider
}

// Session resolves the request's access token into a session.Tracker and
// stores it in the request context. It never rejects a request; use
// RequireSession on routes that need a signed-in user.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracker := session.NewTracker()
			state := tracker.Resolve(r.Context(), cfg.Provider, extractAccessToken(r))

			if state.Err != nil {
				cfg.Logger.Warn("session resolution failed",
					slog.String("reason", resolutionReason(state)),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
			}

			if u := state.User(); u != nil {
				setRequestUser(r.Context(), u.ID)
			}

			ctx := session.NewContext(r.Context(), tracker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a signed-in user. A session that
// could not be resolved because the provider is down is reported as 503
// rather than 401 so clients do not discard a valid token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker := session.FromContext(r.Context())
		if tracker == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		switch tracker.State().AuthState() {
		case navigation.Authenticated:
			next.ServeHTTP(w, r)
		case navigation.Unresolved:
			writeError(w, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "Sign-in service is temporarily unavailable")
		default:
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
	})
}

// NavigationGuard redirects page requests according to policy. Requests
// whose session is still unresolved are served unchanged.
func NavigationGuard(policy *navigation.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := navigation.Anonymous
			if tracker := session.FromContext(r.Context()); tracker != nil {
				state = tracker.State().AuthState()
			}

			decision := policy.Evaluate(state, r.URL.Path)
			if decision.Redirect {
				http.Redirect(w, r, decision.To, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAccessToken reads "Authorization: Bearer <token>", falling back
// to the access token cookie.
func extractAccessToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func resolutionReason(state session.State) string {
	if state.Loading {
		return "provider_unavailable"
	}
	return "invalid_token"
}
