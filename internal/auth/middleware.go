package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fleetrent/internal/db"
)

type contextKey string

const userKey contextKey = "auth-user"
const sessionKey contextKey = "auth-session"

// UserResolver turns a bearer token into the authenticated user, rejecting
// revoked or expired sessions.
type UserResolver interface {
	UserForToken(token string) (*db.User, string, error)
}

// Middleware validates the Authorization header and injects the user into the
// request context.
func Middleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}
			user, sessionID, err := resolver.UserForToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}

// UserFromContext returns the authenticated user, or nil outside the
// protected subrouter.
func UserFromContext(ctx context.Context) *db.User {
	if u, ok := ctx.Value(userKey).(*db.User); ok {
		return u
	}
	return nil
}

// SessionFromContext returns the session ID backing the current token.
func SessionFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionKey).(string); ok {
		return s
	}
	return ""
}

// WithUser is a test helper that injects a user into a context.
func WithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
