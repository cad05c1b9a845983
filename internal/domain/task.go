package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskState is the lifecycle state of a task.
type TaskState string

// Possible task states.
const (
	TaskStateTodo  TaskState = "todo"
	TaskStateDoing TaskState = "doing"
	TaskStateDone  TaskState = "done"
)

// TaskTag is an optional priority label on a task.
type TaskTag string

// Possible task tags.
const (
	TaskTagUrgent    TaskTag = "urgent"
	TaskTagImportant TaskTag = "important"
	TaskTagOptional  TaskTag = "optional"
	TaskTagCanWait   TaskTag = "can_wait"
)

// ParseTaskState converts a raw string into a TaskState.
// Unknown values are rejected with a message naming the offending input,
// which flows back to the client verbatim.
func ParseTaskState(s string) (TaskState, error) {
	switch TaskState(s) {
	case TaskStateTodo, TaskStateDoing, TaskStateDone:
		return TaskState(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidTaskState, s)
}

// ParseTaskTag converts a raw string into a TaskTag.
func ParseTaskTag(s string) (TaskTag, error) {
	switch TaskTag(s) {
	case TaskTagUrgent, TaskTagImportant, TaskTagOptional, TaskTagCanWait:
		return TaskTag(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidTaskTag, s)
}

// Task represents a single to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	State       TaskState  `json:"state"`
	Tag         *TaskTag   `json:"tag,omitempty"`
	UserID      uuid.UUID  `json:"user_id"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// NewTask creates a new Task in state todo, owned by the given user.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, dueDate *time.Time, tag *TaskTag) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		State:       TaskStateTodo,
		Tag:         tag,
		UserID:      userID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if _, err := ParseTaskState(string(t.State)); err != nil {
		return err
	}

	if t.Tag != nil {
		if _, err := ParseTaskTag(string(*t.Tag)); err != nil {
			return err
		}
	}

	return nil
}

// MarkDone moves the task to done from any state. Marking an already
// done task is a no-op.
func (t *Task) MarkDone() {
	t.State = TaskStateDone
}

// Toggle advances the task one step through the cycle
// todo -> doing -> done -> todo and returns the new state.
func (t *Task) Toggle() TaskState {
	switch t.State {
	case TaskStateTodo:
		t.State = TaskStateDoing
	case TaskStateDoing:
		t.State = TaskStateDone
	default:
		t.State = TaskStateTodo
	}
	return t.State
}

// Overdue reports whether the task is past its due date and not yet done.
// Tasks without a due date are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.State != TaskStateDone
}
