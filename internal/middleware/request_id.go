// Package middleware provides the HTTP middleware of the explorer API.
package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

type contextKey string

const requestInfoKey contextKey = "request_info"

// RequestIDHeader is the HTTP header for request ID.
const RequestIDHeader = "X-Request-ID"

// TraceIDHeader is the HTTP header for trace ID.
const TraceIDHeader = "X-Trace-ID"

// maxRequestIDLength bounds client-supplied IDs that end up in logs.
const maxRequestIDLength = 128

// requestInfo is shared by every middleware of one request. Session runs
// deeper in the chain than Logger and Recoverer, so it records the user
// here instead of in a derived context they cannot see.
type requestInfo struct {
	requestID string
	traceID   string

	mu     sync.Mutex
	userID string
}

// RequestID assigns each request an ID, reusing a well-formed X-Request-ID
// from the client and generating a UUID otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &requestInfo{
			requestID: r.Header.Get(RequestIDHeader),
			traceID:   r.Header.Get(TraceIDHeader),
		}
		if !validRequestID(info.requestID) {
			info.requestID = uuid.New().String()
		}
		if !validRequestID(info.traceID) {
			info.traceID = ""
		}

		w.Header().Set(RequestIDHeader, info.requestID)
		if info.traceID != "" {
			w.Header().Set(TraceIDHeader, info.traceID)
		}

		ctx := context.WithValue(r.Context(), requestInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRequestID accepts short IDs made of URL-safe characters.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

func infoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey).(*requestInfo)
	return info
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if info := infoFrom(ctx); info != nil {
		return info.requestID
	}
	return ""
}

// GetTraceID retrieves the trace ID from context.
func GetTraceID(ctx context.Context) string {
	if info := infoFrom(ctx); info != nil {
		return info.traceID
	}
	return ""
}

// setRequestUser records the signed-in user for request-scoped logging.
func setRequestUser(ctx context.Context, userID string) {
	if info := infoFrom(ctx); info != nil {
		info.mu.Lock()
		info.userID = userID
		info.mu.Unlock()
	}
}

// GetRequestUser returns the user ID recorded by Session, or "".
func GetRequestUser(ctx context.Context) string {
	info := infoFrom(ctx)
	if info == nil {
		return ""
	}
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.userID
}
