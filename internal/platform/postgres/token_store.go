package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/store"
)

// PostgresTokenStore implements the store.TokenStore interface over the
// token_blacklist table.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of the
// TokenStore interface. If logger is nil, the default logger is used.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure PostgresTokenStore implements store.TokenStore interface
var _ store.TokenStore = (*PostgresTokenStore)(nil)

// Blacklist implements store.TokenStore.Blacklist. Revoking the same
// token twice is a no-op.
func (s *PostgresTokenStore) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO token_blacklist (token, expired_on)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, token, expiresAt); err != nil {
		log.Error("failed to blacklist token", slog.String("error", err.Error()))
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted implements store.TokenStore.IsBlacklisted
func (s *PostgresTokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1)`

	var revoked bool
	if err := s.db.QueryRowContext(ctx, query, token).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return revoked, nil
}
