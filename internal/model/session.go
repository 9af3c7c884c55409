package model

import "time"

// User is the authenticated identity as reported by the identity provider.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is a verified identity-provider session.
type Session struct {
	AccessToken string    `json:"-"` // Never serialize
	User        User      `json:"user"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
