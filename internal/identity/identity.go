// Package identity talks to the hosted identity provider that issues user
// sessions. Sessions are verified locally from their signed access token
// when a JWT secret is configured, and remotely otherwise.
package identity

import (
	"context"
	"errors"

	"github.com/countries-explorer/explorer/internal/model"
)

// Identity errors.
var (
	ErrNoSession           = errors.New("no valid authentication session found")
	ErrInvalidSession      = errors.New("invalid session")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Provider exposes the identity provider's session operations.
type Provider interface {
	// GetSession resolves the session behind an access token.
	GetSession(ctx context.Context, accessToken string) (*model.Session, error)
	// SignOut ends the session server-side.
	SignOut(ctx context.Context, accessToken string) error
}

// Client verifies tokens locally and delegates sign-out to the remote
// provider. Either part may be nil.
type Client struct {
	verifier *Verifier
	remote   *GoTrueClient
}

// NewClient combines a local verifier and a remote client.
func NewClient(verifier *Verifier, remote *GoTrueClient) *Client {
	return &Client{verifier: verifier, remote: remote}
}

// GetSession implements Provider.
func (c *Client) GetSession(ctx context.Context, accessToken string) (*model.Session, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	if c.verifier != nil {
		return c.verifier.Verify(accessToken)
	}
	if c.remote != nil {
		return c.remote.GetSession(ctx, accessToken)
	}
	return nil, ErrProviderUnavailable
}

// SignOut implements Provider. Without a remote client there is no
// server-side session to end.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if c.remote == nil || accessToken == "" {
		return nil
	}
	return c.remote.SignOut(ctx, accessToken)
}
