package mocks

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane-api/internal/platform/googleauth"
)

// MockGoogleProvider implements googleauth.Provider for testing
type MockGoogleProvider struct {
	AuthURLFn  func(state string) string
	ExchangeFn func(ctx context.Context, code string) (*googleauth.UserInfo, error)

	Info        *googleauth.UserInfo
	ExchangeErr error
}

// AuthURL implements the Provider interface
func (m *MockGoogleProvider) AuthURL(state string) string {
	if m.AuthURLFn != nil {
		return m.AuthURLFn(state)
	}
	return "https://accounts.example.com/consent?state=" + state
}

// Exchange implements the Provider interface
func (m *MockGoogleProvider) Exchange(ctx context.Context, code string) (*googleauth.UserInfo, error) {
	if m.ExchangeFn != nil {
		return m.ExchangeFn(ctx, code)
	}
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	if m.Info != nil {
		return m.Info, nil
	}
	return nil, errors.New("no identity configured")
}
