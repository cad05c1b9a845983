package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// behavior keeps tasks in memory scoped by owner, mirroring the
// ownership contract of the real store: another user's task reads as
// absent.
type MockTaskStore struct {
	CreateFn func(ctx context.Context, task *domain.Task) error
	ListFn   func(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error)

	Tasks map[uuid.UUID]*domain.Task

	Err error
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	task, exists := m.Tasks[id]
	if !exists || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, params)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	var stateFilter *domain.TaskState
	if params.State != "" {
		state, err := domain.ParseTaskState(params.State)
		if err != nil {
			return nil, err
		}
		stateFilter = &state
	}
	var tagFilter *domain.TaskTag
	if params.Tag != "" {
		tag, err := domain.ParseTaskTag(params.Tag)
		if err != nil {
			return nil, err
		}
		tagFilter = &tag
	}

	var matched []domain.Task
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		if stateFilter != nil && task.State != *stateFilter {
			continue
		}
		if tagFilter != nil && (task.Tag == nil || *task.Tag != *tagFilter) {
			continue
		}
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		matched = append(matched, *task)
	}

	sortTasks(matched, params.SortBy, params.SortOrder)

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return &store.TaskPage{
		Tasks:        matched[start:end],
		TotalRecords: total,
		TotalPages:   store.PageCount(total, params.PageSize),
	}, nil
}

func sortTasks(tasks []domain.Task, sortBy, sortOrder string) {
	less := func(i, j int) bool {
		switch sortBy {
		case store.TaskSortTitle:
			return tasks[i].Title < tasks[j].Title
		case store.TaskSortState:
			return tasks[i].State < tasks[j].State
		case store.TaskSortDueDate:
			di, dj := tasks[i].DueDate, tasks[j].DueDate
			if di == nil || dj == nil {
				return dj == nil && di != nil
			}
			return di.Before(*dj)
		default:
			return tasks[i].CreatedOn.Before(tasks[j].CreatedOn)
		}
	}
	if sortOrder == "desc" {
		sort.SliceStable(tasks, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(tasks, less)
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.Err != nil {
		return m.Err
	}
	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// UpdateState implements the TaskStore interface
func (m *MockTaskStore) UpdateState(ctx context.Context, userID, id uuid.UUID, state domain.TaskState) error {
	task, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	task.State = state
	task.UpdatedOn = time.Now().UTC()
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := m.GetByID(ctx, userID, id); err != nil {
		return err
	}
	delete(m.Tasks, id)
	return nil
}

// Stats implements the TaskStore interface
func (m *MockTaskStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (store.TaskStats, error) {
	if m.Err != nil {
		return store.TaskStats{}, m.Err
	}
	var total, todo, doing, done, overdue int
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		total++
		switch task.State {
		case domain.TaskStateTodo:
			todo++
		case domain.TaskStateDoing:
			doing++
		case domain.TaskStateDone:
			done++
		}
		if task.Overdue(now) {
			overdue++
		}
	}
	return store.NewTaskStats(total, todo, doing, done, overdue), nil
}

// WithTx implements the TaskStore interface
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
