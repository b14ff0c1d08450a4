// Package middleware provides HTTP middleware: request logging, JWT
// authentication, and Prometheus metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spender-app/spender/internal/auth"
	"github.com/spender-app/spender/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the user ID from the context. Returns zero if not found.
func GetUserID(ctx context.Context) models.UserID {
	userID, _ := ctx.Value(UserIDKey).(models.UserID)
	return userID
}

// GetEmail extracts the user email from the context. Returns empty string if
// not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// RequireAuth returns middleware that validates Bearer tokens and rejects
// unauthenticated requests. On success the user ID and email are added to the
// request context.
func RequireAuth(jwtManager *auth.JWTManager, unauthorized func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
