package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/countries-explorer/explorer/internal/model"
)

// sessionPrefix is the Redis key prefix for verified sessions.
const sessionPrefix = "session:v1:"

// cachedSession is the stored form of a session. The access token itself is
// never written to Redis; entries are keyed by its hash.
type cachedSession struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetSession retrieves a verified session by token hash.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil || cached.UserID == "" {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}

	return &model.Session{
		User: model.User{
			ID:        cached.UserID,
			Email:     cached.Email,
			Name:      cached.Name,
			AvatarURL: cached.AvatarURL,
		},
		ExpiresAt: cached.ExpiresAt,
	}, nil
}

// SetSession caches a verified session for ttl.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, sess *model.Session, ttl time.Duration) error {
	cached := cachedSession{
		UserID:    sess.User.ID,
		Email:     sess.User.Email,
		Name:      sess.User.Name,
		AvatarURL: sess.User.AvatarURL,
		ExpiresAt: sess.ExpiresAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, sessionPrefix+tokenHash, data, ttl).Err()
}

// DeleteSession removes a cached session.
// Used on sign-out.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, sessionPrefix+tokenHash).Err()
}
