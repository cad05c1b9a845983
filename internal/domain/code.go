package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodeStatus is the lifecycle state of a single-use code.
// A code moves from pending to used exactly once and is never reactivated.
type CodeStatus string

// Possible code statuses.
const (
	CodeStatusPending CodeStatus = "pending"
	CodeStatusUsed    CodeStatus = "used"
)

// ConfirmationCode is a single-use token mailed on registration.
// Redeeming it sets the owning user's confirmed flag. Confirmation codes
// carry no expiry.
type ConfirmationCode struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Code      string     `json:"code"`
	Status    CodeStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
}

// NewConfirmationCode issues a pending confirmation code for the given user.
// The token is an opaque UUID, globally unique by construction.
func NewConfirmationCode(userID uuid.UUID, email string) *ConfirmationCode {
	return &ConfirmationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		Code:      uuid.New().String(),
		Status:    CodeStatusPending,
		CreatedOn: time.Now().UTC(),
	}
}

// Used reports whether the code has already been redeemed.
func (c *ConfirmationCode) Used() bool {
	return c.Status == CodeStatusUsed
}

// ResetCode is a single-use token mailed on a forgot-password request.
// Unlike confirmation codes, reset codes are time-boxed: they share the
// access-token TTL, so a reset link dies no later than the session that
// requested it would have.
type ResetCode struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Code      string     `json:"reset_code"`
	Status    CodeStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
}

// NewResetCode issues a pending reset code for the given email.
func NewResetCode(email string) *ResetCode {
	return &ResetCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      uuid.New().String(),
		Status:    CodeStatusPending,
		CreatedOn: time.Now().UTC(),
	}
}

// Used reports whether the code has already been redeemed.
func (c *ResetCode) Used() bool {
	return c.Status == CodeStatusUsed
}

// Expired reports whether the code was issued longer than ttl before now.
// Expiry is evaluated regardless of status.
func (c *ResetCode) Expired(now time.Time, ttl time.Duration) bool {
	return c.CreatedOn.Before(now.Add(-ttl))
}
