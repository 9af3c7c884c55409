package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/countries-explorer/explorer/internal/identity"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/session"
)

// SessionService exposes the request's session.
type SessionService struct {
	provider  identity.Provider
	onSignOut []func(userID string)
	logger    *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(provider identity.Provider, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		provider: provider,
		logger:   logger.With("component", "session"),
	}
}

// OnSignOut registers fn to run after a user signs out.
func (s *SessionService) OnSignOut(fn func(userID string)) {
	s.onSignOut = append(s.onSignOut, fn)
}

// Me returns the signed-in user of the request.
func (s *SessionService) Me(ctx context.Context) (*model.User, error) {
	u := session.UserFromContext(ctx)
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// SignOut ends the request's session with the provider. The local session
// is cleared even when the provider call fails.
func (s *SessionService) SignOut(ctx context.Context) error {
	tracker := session.FromContext(ctx)
	if tracker == nil {
		return ErrUnauthenticated
	}
	u := tracker.State().User()
	if u == nil {
		return ErrUnauthenticated
	}
	userID := u.ID

	err := tracker.SignOut(ctx, s.provider)
	for _, fn := range s.onSignOut {
		fn(userID)
	}
	if err != nil {
		s.logger.Warn("provider sign-out failed", "user_id", userID, "error", err)
		if errors.Is(err, identity.ErrProviderUnavailable) {
			return fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
		}
		return fmt.Errorf("failed to sign out: %w", err)
	}
	s.logger.Info("signed out", "user_id", userID)
	return nil
}
