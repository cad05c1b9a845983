package store

import (
	"context"
	"database/sql"

	"github.com/tasklane/tasklane-api/internal/domain"
)

// CodeStore persists single-use lifecycle codes. Both code kinds share
// the same contract: issued pending, looked up by exact token, moved to
// used exactly once.
type CodeStore interface {
	// CreateConfirmation inserts a pending confirmation code.
	CreateConfirmation(ctx context.Context, code *domain.ConfirmationCode) error

	// GetConfirmation looks a confirmation code up by its token.
	// Returns ErrCodeNotFound if absent.
	GetConfirmation(ctx context.Context, token string) (*domain.ConfirmationCode, error)

	// InvalidateConfirmation sets the code's status to used. Callers
	// must have checked existence beforehand; invalidating an absent
	// code returns ErrCodeNotFound.
	InvalidateConfirmation(ctx context.Context, token string) error

	// CreateReset inserts a pending reset code.
	CreateReset(ctx context.Context, code *domain.ResetCode) error

	// GetReset looks a reset code up by its token.
	// Returns ErrCodeNotFound if absent.
	GetReset(ctx context.Context, token string) (*domain.ResetCode, error)

	// InvalidateReset sets the code's status to used.
	InvalidateReset(ctx context.Context, token string) error

	// WithTx returns a CodeStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CodeStore
}
