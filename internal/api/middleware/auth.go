// Package middleware provides the HTTP middleware of the API, most
// importantly JWT authentication.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/service/auth"
	"github.com/tasklane/tasklane-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. Beyond
// signature and expiry it enforces two stateful checks: the token must
// not be blacklisted (logout revokes immediately) and the user must
// exist and be confirmed.
type AuthMiddleware struct {
	jwtService auth.JWTService
	tokens     store.TokenStore
	users      store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, tokens store.TokenStore, users store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokens:     tokens,
		users:      users,
	}
}

// Authenticate validates bearer tokens from the Authorization header
// and adds the user identity and raw token to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondUnauthorized(w, r, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondUnauthorized(w, r, "Invalid authorization format")
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondUnauthorized(w, r, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondUnauthorized(w, r, "Could not validate credentials")
			default:
				slog.Error("failed to validate token", "error", err)
				shared.RespondJSON(w, r, http.StatusInternalServerError,
					shared.NewEnvelope(http.StatusInternalServerError, "Authentication error"))
			}
			return
		}

		revoked, err := m.tokens.IsBlacklisted(r.Context(), token)
		if err != nil {
			slog.Error("failed to check token blacklist", "error", err)
			shared.RespondJSON(w, r, http.StatusInternalServerError,
				shared.NewEnvelope(http.StatusInternalServerError, "Authentication error"))
			return
		}
		if revoked {
			shared.RespondUnauthorized(w, r, "Token has been revoked")
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil || !user.Confirmed {
			shared.RespondUnauthorized(w, r, "Please validate your account !")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, shared.ClaimsContextKey, claims)
		ctx = context.WithValue(ctx, shared.TokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
