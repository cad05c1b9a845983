// Package mail sends the transactional emails of the account flows:
// confirmation codes on registration and reset codes on forgot-password.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/tasklane/tasklane-api/internal/config"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
)

// Mailer delivers lifecycle-code emails. Sending happens synchronously
// inside the enclosing registration or forgot-password transaction, so a
// returned error aborts the commit.
type Mailer interface {
	// SendConfirmation mails an account-confirmation code.
	SendConfirmation(ctx context.Context, toEmail, code string) error

	// SendPasswordReset mails a password-reset code.
	SendPasswordReset(ctx context.Context, toEmail, code string) error
}

// SMTPMailer implements Mailer over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

// NewSMTPMailer creates a new SMTP-backed mailer.
// If logger is nil, the default logger is used.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "mailer")),
	}
}

// Ensure SMTPMailer implements Mailer interface
var _ Mailer = (*SMTPMailer)(nil)

// SendConfirmation implements Mailer.SendConfirmation
func (m *SMTPMailer) SendConfirmation(ctx context.Context, toEmail, code string) error {
	body := confirmationBody(toEmail, code)
	return m.send(ctx, toEmail, "Account Confirmation", body)
}

// SendPasswordReset implements Mailer.SendPasswordReset
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, toEmail, code string) error {
	body := resetBody(toEmail, code)
	return m.send(ctx, toEmail, "Reset Password", body)
}

func (m *SMTPMailer) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		log.Error("failed to send email",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return fmt.Errorf("send email: %w", err)
	}

	log.Info("email sent",
		slog.String("to", toEmail),
		slog.String("subject", subject))
	return nil
}
