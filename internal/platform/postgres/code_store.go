package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/store"
)

// PostgresCodeStore implements the store.CodeStore interface over the
// confirmation_codes and reset_codes tables.
type PostgresCodeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCodeStore creates a new PostgreSQL implementation of the
// CodeStore interface. If logger is nil, the default logger is used.
func NewPostgresCodeStore(db store.DBTX, logger *slog.Logger) *PostgresCodeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCodeStore{
		db:     db,
		logger: logger.With(slog.String("component", "code_store")),
	}
}

// Ensure PostgresCodeStore implements store.CodeStore interface
var _ store.CodeStore = (*PostgresCodeStore)(nil)

// WithTx returns a CodeStore bound to the given transaction.
func (s *PostgresCodeStore) WithTx(tx *sql.Tx) store.CodeStore {
	return &PostgresCodeStore{db: tx, logger: s.logger}
}

// CreateConfirmation implements store.CodeStore.CreateConfirmation
func (s *PostgresCodeStore) CreateConfirmation(ctx context.Context, code *domain.ConfirmationCode) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO confirmation_codes (id, user_id, email, code, status, created_on)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		code.ID, code.UserID, code.Email, code.Code, code.Status, code.CreatedOn,
	)
	if err != nil {
		log.Error("failed to create confirmation code",
			slog.String("error", err.Error()),
			slog.String("email", code.Email))
		return fmt.Errorf("failed to create confirmation code: %w", err)
	}
	return nil
}

// GetConfirmation implements store.CodeStore.GetConfirmation
func (s *PostgresCodeStore) GetConfirmation(ctx context.Context, token string) (*domain.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, email, code, status, created_on
		FROM confirmation_codes
		WHERE code = $1
	`
	var c domain.ConfirmationCode
	err := s.db.QueryRowContext(ctx, query, token).
		Scan(&c.ID, &c.UserID, &c.Email, &c.Code, &c.Status, &c.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to scan confirmation code: %w", err)
	}
	return &c, nil
}

// InvalidateConfirmation implements store.CodeStore.InvalidateConfirmation
func (s *PostgresCodeStore) InvalidateConfirmation(ctx context.Context, token string) error {
	query := `UPDATE confirmation_codes SET status = $1 WHERE code = $2`
	return s.invalidate(ctx, query, token)
}

// CreateReset implements store.CodeStore.CreateReset
func (s *PostgresCodeStore) CreateReset(ctx context.Context, code *domain.ResetCode) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO reset_codes (id, email, reset_code, status, created_on)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		code.ID, code.Email, code.Code, code.Status, code.CreatedOn,
	)
	if err != nil {
		log.Error("failed to create reset code",
			slog.String("error", err.Error()),
			slog.String("email", code.Email))
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// GetReset implements store.CodeStore.GetReset
func (s *PostgresCodeStore) GetReset(ctx context.Context, token string) (*domain.ResetCode, error) {
	query := `
		SELECT id, email, reset_code, status, created_on
		FROM reset_codes
		WHERE reset_code = $1
	`
	var c domain.ResetCode
	err := s.db.QueryRowContext(ctx, query, token).
		Scan(&c.ID, &c.Email, &c.Code, &c.Status, &c.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to scan reset code: %w", err)
	}
	return &c, nil
}

// InvalidateReset implements store.CodeStore.InvalidateReset
func (s *PostgresCodeStore) InvalidateReset(ctx context.Context, token string) error {
	query := `UPDATE reset_codes SET status = $1 WHERE reset_code = $2`
	return s.invalidate(ctx, query, token)
}

func (s *PostgresCodeStore) invalidate(ctx context.Context, query, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, domain.CodeStatusUsed, token)
	if err != nil {
		log.Error("failed to invalidate code", slog.String("error", err.Error()))
		return fmt.Errorf("failed to invalidate code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrCodeNotFound
	}
	return nil
}
