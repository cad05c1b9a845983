package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/store"
)

// PostgresErrorLogStore implements the store.ErrorLogStore interface
// over the append-only errors table. It always writes on its own
// connection, never inside the failed transaction it is reporting on.
type PostgresErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresErrorLogStore creates a new PostgreSQL implementation of
// the ErrorLogStore interface. If logger is nil, the default logger is used.
func NewPostgresErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "errorlog_store")),
	}
}

// Ensure PostgresErrorLogStore implements store.ErrorLogStore interface
var _ store.ErrorLogStore = (*PostgresErrorLogStore)(nil)

// Record implements store.ErrorLogStore.Record. A failed write is
// logged and swallowed: the diagnostic sink must never make a failing
// request fail harder.
func (s *PostgresErrorLogStore) Record(ctx context.Context, errText string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `INSERT INTO errors (id, error, created_on) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, uuid.New(), errText, time.Now().UTC()); err != nil {
		log.Error("failed to record error diagnostic",
			slog.String("error", err.Error()))
	}
	return nil
}
