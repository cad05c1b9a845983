package store

import (
	"context"
	"time"
)

// TokenStore records revoked bearer tokens. Logout writes here and the
// authentication middleware consults it before trusting a signature.
type TokenStore interface {
	// Blacklist records the token as revoked. expiresAt is the token's
	// own expiry, after which the row is eligible for cleanup.
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error

	// IsBlacklisted reports whether the token has been revoked.
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
