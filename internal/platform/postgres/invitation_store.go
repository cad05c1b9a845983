package postgres

import (
	"context"
	"fmt"

	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// PostgresInvitationStore implements the store.InvitationStore interface.
type PostgresInvitationStore struct {
	db store.DBTX
}

// NewPostgresInvitationStore creates a new PostgreSQL implementation of
// the InvitationStore interface.
func NewPostgresInvitationStore(db store.DBTX) *PostgresInvitationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresInvitationStore{db: db}
}

// Ensure PostgresInvitationStore implements store.InvitationStore interface
var _ store.InvitationStore = (*PostgresInvitationStore)(nil)

// HasPending implements store.InvitationStore.HasPending
func (s *PostgresInvitationStore) HasPending(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invitations WHERE email = $1 AND status = $2)`

	var pending bool
	err := s.db.QueryRowContext(ctx, query, email, domain.InvitationStatusPending).Scan(&pending)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return pending, nil
}
