package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const AuthenticatedUserContextKey = ContextKey("authenticatedUser")

// AuthenticatedUser is the identity attached to the request context after
// a successful bearer-token check.
type AuthenticatedUser struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}

// SessionReader exposes the single live session to the middleware.
type SessionReader interface {
	CurrentUser() *sessiondomain.UserAccount
}

// AuthMiddleware validates the bearer JWT and requires it to refer to the
// currently live session. A token for a logged-out or replaced session is
// rejected even when cryptographically valid.
func AuthMiddleware(secret string, session SessionReader, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(r.Context(), "Authorization header missing")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.WarnContext(r.Context(), "Invalid Authorization header format")
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := parseToken(parts[1], secret)
			if err != nil {
				logger.WarnContext(r.Context(), "Token validation failed", "error", err)
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			current := session.CurrentUser()
			if current == nil || current.ID != claims.ID {
				logger.WarnContext(r.Context(), "Token does not match the live session", "token_sub", claims.ID)
				http.Error(w, "Session is no longer active", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AuthenticatedUserContextKey, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly gates a route group on the administrator flag. AuthMiddleware
// must run first.
func AdminOnly(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser, ok := r.Context().Value(AuthenticatedUserContextKey).(AuthenticatedUser)
			if !ok {
				logger.ErrorContext(r.Context(), "AuthenticatedUser not found in context. AuthMiddleware must run first.")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if !authUser.IsAdmin {
				logger.WarnContext(r.Context(), "Admin access denied", "user_id", authUser.ID)
				http.Error(w, "Forbidden: administrator access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseToken(tokenString, secret string) (*AuthenticatedUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token is invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims shape")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	name, _ := claims["unm"].(string)
	isAdmin, _ := claims["adm"].(bool)
	return &AuthenticatedUser{ID: sub, DisplayName: name, IsAdmin: isAdmin}, nil
}
