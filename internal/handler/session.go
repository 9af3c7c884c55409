package handler

import (
	"log/slog"
	"net/http"

	"github.com/countries-explorer/explorer/internal/handler/dto"
	"github.com/countries-explorer/explorer/internal/navigation"
	"github.com/countries-explorer/explorer/internal/service"
	"github.com/countries-explorer/explorer/internal/session"
)

// SessionHandler serves the current session and navigation decisions.
type SessionHandler struct {
	svc    *service.SessionService
	policy *navigation.Policy
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService, policy *navigation.Policy, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		svc:    svc,
		policy: policy,
		logger: logger,
	}
}

// Me handles GET /api/v1/me.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(u))
}

// Logout handles POST /api/v1/logout. The response names the route the
// client should move to.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LogoutResponse{
		Redirect: navigation.LoginRoute,
	})
}

// Navigation handles GET /api/v1/navigation?path=.
func (h *SessionHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	state := navigation.Anonymous
	if tracker := session.FromContext(r.Context()); tracker != nil {
		state = tracker.State().AuthState()
	}

	decision := h.policy.Evaluate(state, path)
	writeJSON(w, http.StatusOK, dto.NavigationResponse{
		Path:     path,
		State:    state.String(),
		Category: string(h.policy.Classify(path)),
		Redirect: decision.Redirect,
		To:       decision.To,
	})
}
