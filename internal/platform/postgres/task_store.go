package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a TaskStore bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

const taskColumns = `id, title, description, due_date, state, tag, user_id, created_on, updated_on`

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.DueDate,
		task.State,
		nullTag(task.Tag),
		task.UserID,
		task.CreatedOn,
		task.UpdatedOn,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID. Ownership is part of the
// lookup key: another user's task reads as not found.
func (s *PostgresTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}
	return task, nil
}

// listClauses builds the WHERE/ORDER BY clauses and arguments shared by
// the count and page queries. Split out so the SQL shape is testable
// without a database. The returned args start at placeholder $1; userID
// is always the first argument.
func listClauses(userID uuid.UUID, params store.TaskListParams) (where string, orderBy string, args []any, err error) {
	conds := []string{"user_id = $1"}
	args = []any{userID}

	if params.State != "" {
		state, err := domain.ParseTaskState(params.State)
		if err != nil {
			return "", "", nil, err
		}
		args = append(args, state)
		conds = append(conds, fmt.Sprintf("state = $%d", len(args)))
	}

	if params.Tag != "" {
		tag, err := domain.ParseTaskTag(params.Tag)
		if err != nil {
			return "", "", nil, err
		}
		args = append(args, tag)
		conds = append(conds, fmt.Sprintf("tag = $%d", len(args)))
	}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	where = "WHERE " + strings.Join(conds, " AND ")

	// params.Normalize already restricted SortBy and SortOrder to known
	// identifiers, so interpolating them here cannot inject SQL.
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}
	orderBy = fmt.Sprintf("ORDER BY %s %s", params.SortBy, direction)

	return where, orderBy, args, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	params.Normalize()

	where, orderBy, args, err := listClauses(userID, params)
	if err != nil {
		return nil, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT %s FROM tasks %s %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderBy, len(args)+1, len(args)+2,
	)
	args = append(args, params.PageSize, params.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return &store.TaskPage{
		Tasks:        tasks,
		TotalRecords: total,
		TotalPages:   store.PageCount(total, params.PageSize),
	}, nil
}

// Update implements store.TaskStore.Update. Free-form field replacement:
// no state-cycle enforcement, last write wins.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, state = $4, tag = $5, updated_on = $6
		WHERE id = $7 AND user_id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		nullString(task.Description),
		task.DueDate,
		task.State,
		nullTag(task.Tag),
		time.Now().UTC(),
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("failed to update task: %w", err)
	}

	return expectRow(result, store.ErrTaskNotFound)
}

// UpdateState implements store.TaskStore.UpdateState
func (s *PostgresTaskStore) UpdateState(ctx context.Context, userID, id uuid.UUID, state domain.TaskState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE tasks SET state = $1, updated_on = $2 WHERE id = $3 AND user_id = $4`
	result, err := s.db.ExecContext(ctx, query, state, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to update task state",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("failed to update task state: %w", err)
	}

	return expectRow(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return expectRow(result, store.ErrTaskNotFound)
}

// Stats implements store.TaskStore.Stats. A single aggregate pass,
// with overdue counted as due before now and not done.
func (s *PostgresTaskStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (store.TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE state = 'todo'),
			COUNT(*) FILTER (WHERE state = 'doing'),
			COUNT(*) FILTER (WHERE state = 'done'),
			COUNT(*) FILTER (WHERE due_date < $2 AND state <> 'done')
		FROM tasks
		WHERE user_id = $1
	`
	var total, todo, doing, done, overdue int
	err := s.db.QueryRowContext(ctx, query, userID, now).
		Scan(&total, &todo, &doing, &done, &overdue)
	if err != nil {
		log.Error("failed to aggregate task stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.TaskStats{}, fmt.Errorf("failed to aggregate task stats: %w", err)
	}

	return store.NewTaskStats(total, todo, doing, done, overdue), nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	task, err := scanTaskFields(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func scanTaskRow(rows *sql.Rows) (*domain.Task, error) {
	return scanTaskFields(rows)
}

func scanTaskFields(r rowScanner) (*domain.Task, error) {
	var t domain.Task
	var description sql.NullString
	var dueDate sql.NullTime
	var tag sql.NullString

	err := r.Scan(
		&t.ID,
		&t.Title,
		&description,
		&dueDate,
		&t.State,
		&tag,
		&t.UserID,
		&t.CreatedOn,
		&t.UpdatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task row: %w", err)
	}

	t.Description = description.String
	if dueDate.Valid {
		due := dueDate.Time
		t.DueDate = &due
	}
	if tag.Valid {
		tt := domain.TaskTag(tag.String)
		t.Tag = &tt
	}

	return &t, nil
}

func expectRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTag(tag *domain.TaskTag) sql.NullString {
	if tag == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*tag), Valid: true}
}
