package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/service/auth"
)

type contextKey string

// Context keys populated by the authentication middleware.
const (
	// UserIDContextKey carries the authenticated user's uuid.UUID.
	UserIDContextKey contextKey = "user_id"

	// ClaimsContextKey carries the validated *auth.Claims.
	ClaimsContextKey contextKey = "claims"

	// TokenContextKey carries the raw bearer token string, needed by
	// logout to blacklist the exact presented token.
	TokenContextKey contextKey = "token"
)

// UserIDFromContext extracts the authenticated user's ID from the context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ClaimsFromContext extracts the validated token claims from the context.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// TokenFromContext extracts the raw bearer token from the context.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok && token != ""
}
