package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// This package carries who is talking to us: the chat session a browser
// belongs to, and the API key a caller supplied.

// contextKey is a private type to avoid key collisions in the context.
type contextKey string

const SessionIDKey = contextKey("session_id")

// SetSessionID returns a new request with the session's ID added to its context.
// The session middleware will call this.
func SetSessionID(r *http.Request, id uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), SessionIDKey, id)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the session's ID from the context.
func GetSessionID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	if !ok {
		// This will probably happen if the middleware is missing from the route.
		return uuid.Nil, fmt.Errorf("no session ID in context")
	}
	return id, nil
}

// BearerCredential returns the API key from an "Authorization: Bearer <key>"
// header, or "" when there is none.
func BearerCredential(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Mask hides all but the last four characters of a key so it can be logged.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
