package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	// Data for default implementation, keyed by email
	Users map[string]*domain.User

	CreateError error
	LookupError error
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// List implements the UserStore interface. The default filters on a
// case-insensitive substring of "first last" and pages deterministically
// by email order.
func (m *MockUserStore) List(ctx context.Context, params store.UserListParams) ([]domain.User, int, error) {
	if m.LookupError != nil {
		return nil, 0, m.LookupError
	}

	var matched []domain.User
	for _, user := range m.Users {
		full := strings.ToLower(user.FirstName + " " + user.LastName)
		if params.NameSubstr != "" && !strings.Contains(full, strings.ToLower(params.NameSubstr)) {
			continue
		}
		matched = append(matched, *user)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	total := len(matched)
	start := (params.PageNumber - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// UpdateProfile implements the UserStore interface
func (m *MockUserStore) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) error {
	user, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.FirstName = firstName
	user.LastName = lastName
	return nil
}

// UpdatePassword implements the UserStore interface
func (m *MockUserStore) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	user, exists := m.Users[email]
	if !exists {
		return store.ErrUserNotFound
	}
	user.HashedPassword = hashedPassword
	return nil
}

// SetConfirmed implements the UserStore interface
func (m *MockUserStore) SetConfirmed(ctx context.Context, email string) error {
	user, exists := m.Users[email]
	if !exists {
		return store.ErrUserNotFound
	}
	user.Confirmed = true
	return nil
}

// WithTx implements the UserStore interface; the in-memory store has no
// transactions so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
