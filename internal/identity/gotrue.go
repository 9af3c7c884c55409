package identity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/upstream"
)

// GoTrueClient calls the provider's auth REST API.
type GoTrueClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGoTrueClient creates a client for the auth API at baseURL
// (e.g. https://<project>.supabase.co/auth/v1).
func NewGoTrueClient(baseURL, apiKey string, client *http.Client) *GoTrueClient {
	if client == nil {
		client = upstream.NewHTTPClient(0)
	}
	return &GoTrueClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// GetSession fetches the user behind accessToken.
func (c *GoTrueClient) GetSession(ctx context.Context, accessToken string) (*model.Session, error) {
	var resp userResponse
	err := upstream.GetJSON(ctx, c.client, c.baseURL+"/user", c.headers(accessToken), &resp)
	if err != nil {
		return nil, c.mapError(err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidSession)
	}

	return &model.Session{
		AccessToken: accessToken,
		User:        userFromClaims(resp.ID, resp.Email, resp.UserMetadata),
	}, nil
}

// SignOut revokes the session behind accessToken.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	for k, vs := range c.headers(accessToken) {
		req.Header[k] = vs
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Already gone on the provider side.
		return nil
	default:
		return fmt.Errorf("%w: logout returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
}

func (c *GoTrueClient) headers(accessToken string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+accessToken)
	if c.apiKey != "" {
		h.Set("apikey", c.apiKey)
	}
	return h
}

func (c *GoTrueClient) mapError(err error) error {
	switch code := upstream.StatusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	default:
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
}
