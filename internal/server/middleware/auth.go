// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/daniel/scriptstudio/internal/userdir"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	userIDKey ContextKey = "userID"
	roleKey   ContextKey = "role"
)

// TokenValidator validates a bearer token and returns its claims.
// The interface keeps the middleware free of a dependency on the JWT service.
type TokenValidator interface {
	ValidateToken(tokenString string) (ClaimsGetter, error)
}

// ClaimsGetter exposes the identity carried by validated token claims.
type ClaimsGetter interface {
	GetUserID() uuid.UUID
	GetRole() userdir.Role
}

// AuthMiddleware validates bearer tokens and adds the caller's identity to
// the request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" is matched case-insensitively.
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.GetUserID())
			ctx = context.WithValue(ctx, roleKey, claims.GetRole())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role does not grant the
// required role. It must run inside AuthMiddleware.
func RequireRole(required userdir.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetRole(r)
			if err != nil || !role.Allows(required) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}

// GetRole extracts the authenticated role from the request context.
func GetRole(r *http.Request) (userdir.Role, error) {
	role, ok := r.Context().Value(roleKey).(userdir.Role)
	if !ok {
		return "", fmt.Errorf("role not found in request context")
	}
	return role, nil
}

// UserIDKey returns the context key for user ID (for testing purposes).
func UserIDKey() ContextKey {
	return userIDKey
}

// RoleKey returns the context key for role (for testing purposes).
func RoleKey() ContextKey {
	return roleKey
}
