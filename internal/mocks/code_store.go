package mocks

import (
	"context"
	"database/sql"

	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// MockCodeStore implements store.CodeStore for testing
type MockCodeStore struct {
	CreateConfirmationFn func(ctx context.Context, code *domain.ConfirmationCode) error
	CreateResetFn        func(ctx context.Context, code *domain.ResetCode) error

	ConfirmationCodes map[string]*domain.ConfirmationCode
	ResetCodes        map[string]*domain.ResetCode

	Err error
}

// NewMockCodeStore creates a new mock store with initialized defaults
func NewMockCodeStore() *MockCodeStore {
	return &MockCodeStore{
		ConfirmationCodes: make(map[string]*domain.ConfirmationCode),
		ResetCodes:        make(map[string]*domain.ResetCode),
	}
}

// CreateConfirmation implements the CodeStore interface
func (m *MockCodeStore) CreateConfirmation(ctx context.Context, code *domain.ConfirmationCode) error {
	if m.CreateConfirmationFn != nil {
		return m.CreateConfirmationFn(ctx, code)
	}
	if m.Err != nil {
		return m.Err
	}
	m.ConfirmationCodes[code.Code] = code
	return nil
}

// GetConfirmation implements the CodeStore interface
func (m *MockCodeStore) GetConfirmation(ctx context.Context, token string) (*domain.ConfirmationCode, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	code, exists := m.ConfirmationCodes[token]
	if !exists {
		return nil, store.ErrCodeNotFound
	}
	return code, nil
}

// InvalidateConfirmation implements the CodeStore interface
func (m *MockCodeStore) InvalidateConfirmation(ctx context.Context, token string) error {
	code, exists := m.ConfirmationCodes[token]
	if !exists {
		return store.ErrCodeNotFound
	}
	code.Status = domain.CodeStatusUsed
	return nil
}

// CreateReset implements the CodeStore interface
func (m *MockCodeStore) CreateReset(ctx context.Context, code *domain.ResetCode) error {
	if m.CreateResetFn != nil {
		return m.CreateResetFn(ctx, code)
	}
	if m.Err != nil {
		return m.Err
	}
	m.ResetCodes[code.Code] = code
	return nil
}

// GetReset implements the CodeStore interface
func (m *MockCodeStore) GetReset(ctx context.Context, token string) (*domain.ResetCode, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	code, exists := m.ResetCodes[token]
	if !exists {
		return nil, store.ErrCodeNotFound
	}
	return code, nil
}

// InvalidateReset implements the CodeStore interface
func (m *MockCodeStore) InvalidateReset(ctx context.Context, token string) error {
	code, exists := m.ResetCodes[token]
	if !exists {
		return store.ErrCodeNotFound
	}
	code.Status = domain.CodeStatusUsed
	return nil
}

// WithTx implements the CodeStore interface
func (m *MockCodeStore) WithTx(tx *sql.Tx) store.CodeStore {
	return m
}
