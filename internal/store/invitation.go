package store

import "context"

// InvitationStore reads invitation records. Only the pending check is
// needed by the federated registration path; invitations themselves are
// written by an external process.
type InvitationStore interface {
	// HasPending reports whether a pending invitation exists for the email.
	HasPending(ctx context.Context, email string) (bool, error)
}
