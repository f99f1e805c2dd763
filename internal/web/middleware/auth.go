package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/celltrail/internal/auth"
)

type contextKey string

// userKey carries the authenticated username through the request context.
const userKey contextKey = "user"

// Authentication requires a valid bearer token on every request it
// wraps. The verified username is attached to the request context.
func Authentication(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			username, err := auth.VerifyAccessToken(token, secret)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, username)))
		})
	}
}

// Username returns the authenticated username, if any.
func Username(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(userKey).(string)
	return name, ok
}
