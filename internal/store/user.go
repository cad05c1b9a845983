package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
)

// UserListParams narrows and pages the user listing.
// NameSubstr, when set, matches case-insensitively against the
// concatenation of first and last name.
type UserListParams struct {
	NameSubstr string
	PageSize   int
	PageNumber int
}

// Normalize clamps paging values to their documented defaults.
func (p *UserListParams) Normalize() {
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry
	// a hashed password. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns a page of users plus the total record count,
	// optionally filtered by a name substring.
	List(ctx context.Context, params UserListParams) ([]domain.User, int, error)

	// UpdateProfile modifies first and last name of an existing user.
	// Email is immutable through this path.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) error

	// UpdatePassword overwrites the stored password hash for the user
	// with the given email. Returns ErrUserNotFound if absent.
	UpdatePassword(ctx context.Context, email, hashedPassword string) error

	// SetConfirmed marks the user with the given email as confirmed.
	// Returns ErrUserNotFound if absent.
	SetConfirmed(ctx context.Context, email string) error

	// WithTx returns a UserStore bound to the provided transaction,
	// letting multiple operations commit or roll back as one unit.
	WithTx(tx *sql.Tx) UserStore
}
