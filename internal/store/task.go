package store

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
)

// Paging bounds shared by all list endpoints.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Task sort fields accepted by TaskListParams.SortBy. Anything else
// falls back to created_on, a defensive default rather than an error.
const (
	TaskSortCreatedOn = "created_on"
	TaskSortDueDate   = "due_date"
	TaskSortTitle     = "title"
	TaskSortState     = "state"
)

// TaskListParams carries the filter, search, sort, and paging request
// for a task listing. State and Tag are raw strings: validating them
// against the enums is part of the query contract, and an invalid value
// fails the whole call.
type TaskListParams struct {
	State      string
	Tag        string
	Search     string
	SortBy     string
	SortOrder  string
	PageSize   int
	PageNumber int
}

// Normalize applies the documented defaults: page_size 10 within [1,100],
// page_number at least 1, sort by created_on descending.
func (p *TaskListParams) Normalize() {
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	switch p.SortBy {
	case TaskSortCreatedOn, TaskSortDueDate, TaskSortTitle, TaskSortState:
	default:
		p.SortBy = TaskSortCreatedOn
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
}

// Offset returns the row offset implied by the page number and size.
func (p *TaskListParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// TaskPage is one page of a task listing plus its totals.
type TaskPage struct {
	Tasks        []domain.Task
	TotalRecords int
	TotalPages   int
}

// PageCount returns ceil(totalRecords / pageSize).
func PageCount(totalRecords, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalRecords + pageSize - 1) / pageSize
}

// TaskStats aggregates a user's tasks by state.
type TaskStats struct {
	Total          int     `json:"total"`
	Todo           int     `json:"todo"`
	Doing          int     `json:"doing"`
	Done           int     `json:"done"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

// NewTaskStats builds a TaskStats from raw counts, deriving the
// completion rate as done/total*100 rounded to two decimals, or 0 when
// there are no tasks at all.
func NewTaskStats(total, todo, doing, done, overdue int) TaskStats {
	var rate float64
	if total > 0 {
		rate = math.Round(float64(done)/float64(total)*100*100) / 100
	}
	return TaskStats{
		Total:          total,
		Todo:           todo,
		Doing:          doing,
		Done:           done,
		Overdue:        overdue,
		CompletionRate: rate,
	}
}

// TaskStore defines the interface for task data persistence. Every
// operation is scoped to the owning user: a task belonging to another
// user is indistinguishable from one that does not exist.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the user's task with the given ID.
	// Returns ErrTaskNotFound if absent or owned by someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// List returns a filtered, searched, sorted, and paged view over
	// the user's tasks. Callers must Normalize params first; invalid
	// State or Tag values return domain.ErrInvalidTaskState or
	// domain.ErrInvalidTaskTag.
	List(ctx context.Context, userID uuid.UUID, params TaskListParams) (*TaskPage, error)

	// Update replaces the mutable fields of the user's task.
	// Free-form replacement: the state cycle is not enforced here, and
	// concurrent updates are last-write-wins.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateState sets only the task's state, refreshing updated_on.
	UpdateState(ctx context.Context, userID, id uuid.UUID, state domain.TaskState) error

	// Delete removes the user's task. Returns ErrTaskNotFound if absent.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Stats aggregates the user's tasks by state, with overdue counted
	// as due before now and not done.
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (TaskStats, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
