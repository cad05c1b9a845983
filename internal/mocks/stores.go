package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/tasklane/tasklane-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing
type MockTokenStore struct {
	mu          sync.Mutex
	Blacklisted map[string]time.Time

	Err error
}

// NewMockTokenStore creates a new mock store with initialized defaults
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Blacklisted: make(map[string]time.Time),
	}
}

// Blacklist implements the TokenStore interface
func (m *MockTokenStore) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blacklisted[token] = expiresAt
	return nil
}

// IsBlacklisted implements the TokenStore interface
func (m *MockTokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Blacklisted[token]
	return exists, nil
}

// MockInvitationStore implements store.InvitationStore for testing
type MockInvitationStore struct {
	Pending map[string]bool

	Err error
}

// NewMockInvitationStore creates a new mock store with initialized defaults
func NewMockInvitationStore() *MockInvitationStore {
	return &MockInvitationStore{
		Pending: make(map[string]bool),
	}
}

// HasPending implements the InvitationStore interface
func (m *MockInvitationStore) HasPending(ctx context.Context, email string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return m.Pending[email], nil
}

// MockErrorLogStore implements store.ErrorLogStore for testing
type MockErrorLogStore struct {
	mu      sync.Mutex
	Records []string
}

// Record implements the ErrorLogStore interface
func (m *MockErrorLogStore) Record(ctx context.Context, errText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, errText)
	return nil
}

// Recorded returns a copy of the recorded error texts.
func (m *MockErrorLogStore) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Records))
	copy(out, m.Records)
	return out
}

// PassthroughTxRunner returns a store.TxRunner that invokes the
// function directly with a nil transaction. It pairs with the mock
// stores, whose WithTx returns the store itself.
func PassthroughTxRunner() store.TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, (*sql.Tx)(nil))
	}
}

// RecordingTxRunner behaves like PassthroughTxRunner but counts how
// each transaction closure ended, so tests can assert that a failing
// flow would have been rolled back rather than committed.
type RecordingTxRunner struct {
	Commits   int
	Rollbacks int
}

// Run is the store.TxRunner bound to this recorder.
func (r *RecordingTxRunner) Run(ctx context.Context, fn store.TxFn) error {
	err := fn(ctx, (*sql.Tx)(nil))
	if err != nil {
		r.Rollbacks++
		return err
	}
	r.Commits++
	return nil
}
