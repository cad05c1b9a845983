package mocks

import (
	"context"
	"sync"
)

// SentMail records one dispatched message for verification.
type SentMail struct {
	To   string
	Code string
	Kind string
}

// MockMailer implements mail.Mailer for testing
type MockMailer struct {
	SendConfirmationFn  func(ctx context.Context, toEmail, code string) error
	SendPasswordResetFn func(ctx context.Context, toEmail, code string) error

	mu   sync.Mutex
	Sent []SentMail

	Err error
}

// SendConfirmation implements the Mailer interface
func (m *MockMailer) SendConfirmation(ctx context.Context, toEmail, code string) error {
	if m.SendConfirmationFn != nil {
		return m.SendConfirmationFn(ctx, toEmail, code)
	}
	if m.Err != nil {
		return m.Err
	}
	m.record(SentMail{To: toEmail, Code: code, Kind: "confirmation"})
	return nil
}

// SendPasswordReset implements the Mailer interface
func (m *MockMailer) SendPasswordReset(ctx context.Context, toEmail, code string) error {
	if m.SendPasswordResetFn != nil {
		return m.SendPasswordResetFn(ctx, toEmail, code)
	}
	if m.Err != nil {
		return m.Err
	}
	m.record(SentMail{To: toEmail, Code: code, Kind: "reset"})
	return nil
}

func (m *MockMailer) record(sent SentMail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sent)
}
