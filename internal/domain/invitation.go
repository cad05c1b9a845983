package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

// Possible invitation statuses.
const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// Invitation records that an email address has been invited to register
// through the client-side form. A pending invitation defers federated
// registration: the OAuth callback redirects to the registration form
// instead of creating the account directly.
type Invitation struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Status    InvitationStatus `json:"status"`
	CreatedOn time.Time        `json:"created_on"`
}
