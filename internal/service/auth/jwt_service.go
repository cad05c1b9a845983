package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
)

// Claims is the validated content of a bearer token. Identity fields are
// embedded so clients can render the user without a follow-up request.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	FirstName string
	LastName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService signs and verifies the bearer tokens that carry a user's
// identity between requests.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken verifies signature and time claims, returning the
	// parsed claims or ErrInvalidToken / ErrExpiredToken /
	// ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports the configured access-token TTL. The reset
	// code expiry window is defined as this same duration.
	TokenLifetime() time.Duration
}
