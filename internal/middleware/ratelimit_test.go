package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/countries-explorer/explorer/internal/cache"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/session"
)

type recordingLimiter struct {
	allow   bool
	err     error
	userIDs []string
	ips     []string
}

func (l *recordingLimiter) result() (*cache.RateLimitResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	res := &cache.RateLimitResult{Allowed: l.allow, Remaining: 4, ResetAt: time.Unix(1700000000, 0)}
	if !l.allow {
		res.Remaining = 0
		res.RetryAfter = 3 * time.Second
	}
	return res, nil
}

func (l *recordingLimiter) CheckUserRateLimit(_ context.Context, userID string, _, _ int) (*cache.RateLimitResult, error) {
	l.userIDs = append(l.userIDs, userID)
	return l.result()
}

func (l *recordingLimiter) CheckIPRateLimit(_ context.Context, ip string, _, _ int) (*cache.RateLimitResult, error) {
	l.ips = append(l.ips, ip)
	return l.result()
}

func rateLimitedHandler(limiter RateLimiter, enabled bool) http.Handler {
	return RateLimit(RateLimitConfig{
		Logger:    quietLogger(),
		Limiter:   limiter,
		Enabled:   enabled,
		UserRPS:   10,
		UserBurst: 20,
		IPRPS:     5,
		IPBurst:   10,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func signedIn(r *http.Request, userID string) *http.Request {
	tracker := session.NewTracker()
	tracker.Apply(session.Event{Type: session.EventSignedIn, Session: &model.Session{User: model.User{ID: userID}}})
	return r.WithContext(session.NewContext(r.Context(), tracker))
}

func TestRateLimit_KeysByUserThenIP(t *testing.T) {
	limiter := &recordingLimiter{allow: true}
	handler := rateLimitedHandler(limiter, true)

	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/favourites", nil), "u1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(limiter.userIDs) != 1 || limiter.userIDs[0] != "u1" {
		t.Errorf("user checks = %v, want [u1]", limiter.userIDs)
	}
	if len(limiter.ips) != 1 || limiter.ips[0] != "203.0.113.7" {
		t.Errorf("ip checks = %v, want [203.0.113.7]", limiter.ips)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "10" {
		t.Errorf("X-RateLimit-Limit = %q, want 10", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Errorf("X-RateLimit-Remaining = %q, want 4", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	handler := rateLimitedHandler(&recordingLimiter{allow: false}, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "3" {
		t.Errorf("Retry-After = %q, want 3", rec.Header().Get("Retry-After"))
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", body.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	handler := rateLimitedHandler(&recordingLimiter{err: errors.New("redis down")}, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := &recordingLimiter{allow: false}
	handler := rateLimitedHandler(limiter, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(limiter.ips) != 0 {
		t.Error("limiter should not be consulted when disabled")
	}
}
