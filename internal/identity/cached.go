package identity

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/countries-explorer/explorer/internal/model"
)

// defaultSessionTTL bounds how long a verified session is trusted from cache.
const defaultSessionTTL = 5 * time.Minute

// SessionStore caches verified sessions by token hash.
// A miss is reported as (nil, nil) or as an error; both fall through.
type SessionStore interface {
	GetSession(ctx context.Context, tokenHash string) (*model.Session, error)
	SetSession(ctx context.Context, tokenHash string, sess *model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, tokenHash string) error
}

// CachedProvider caches GetSession results of another Provider.
type CachedProvider struct {
	next   Provider
	store  SessionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCachedProvider wraps next with store.
func NewCachedProvider(next Provider, store SessionStore, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		store:  store,
		logger: logger.With("component", "identity.cache"),
		now:    time.Now,
	}
}

// GetSession implements Provider.
func (p *CachedProvider) GetSession(ctx context.Context, accessToken string) (*model.Session, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	key := TokenHash(accessToken)

	if cached, err := p.store.GetSession(ctx, key); err == nil && cached != nil && !cached.IsExpired(p.now()) {
		cached.AccessToken = accessToken
		return cached, nil
	}

	sess, err := p.next.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	ttl := defaultSessionTTL
	if !sess.ExpiresAt.IsZero() {
		if until := sess.ExpiresAt.Sub(p.now()); until < ttl {
			ttl = until
		}
	}
	if ttl > 0 {
		if err := p.store.SetSession(ctx, key, sess, ttl); err != nil {
			p.logger.Warn("failed to cache session", "error", err)
		}
	}
	return sess, nil
}

// SignOut implements Provider and evicts the cached session.
func (p *CachedProvider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken != "" {
		if err := p.store.DeleteSession(ctx, TokenHash(accessToken)); err != nil {
			p.logger.Warn("failed to evict session", "error", err)
		}
	}
	return p.next.SignOut(ctx, accessToken)
}

// TokenHash derives a cache key from an access token.
// It is not suitable for storing secrets.
func TokenHash(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
