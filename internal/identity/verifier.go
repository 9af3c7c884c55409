package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/countries-explorer/explorer/internal/model"
)

// DefaultAudience is the audience the provider puts on user access tokens.
const DefaultAudience = "authenticated"

// accessClaims mirrors the provider's access token payload.
type accessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Verifier checks HS256 access tokens signed with the provider's JWT secret.
type Verifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

// NewVerifier creates a Verifier. An empty audience disables the check.
func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{
		secret:   []byte(secret),
		audience: audience,
		now:      time.Now,
	}
}

// Verify parses and validates token and returns the session it carries.
func (v *Verifier) Verify(token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(5 * time.Second),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidSession)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	sess := &model.Session{
		AccessToken: token,
		User:        userFromClaims(claims.Subject, claims.Email, claims.UserMetadata),
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// userFromClaims maps provider metadata onto a User. Providers disagree on
// the name key, so both "name" and "full_name" are accepted.
func userFromClaims(id, email string, meta map[string]any) model.User {
	u := model.User{ID: id, Email: email}
	u.Name = stringClaim(meta, "name")
	if u.Name == "" {
		u.Name = stringClaim(meta, "full_name")
	}
	u.AvatarURL = stringClaim(meta, "avatar_url")
	return u
}

func stringClaim(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
