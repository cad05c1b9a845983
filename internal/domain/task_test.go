package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates task in todo state", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(userID, "Write report", "quarterly numbers", nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, TaskStateTodo, task.State)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, task.CreatedOn, task.UpdatedOn)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask(userID, "", "desc", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyTaskTitle)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask(uuid.Nil, "Write report", "", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyTaskUserID)
	})

	t.Run("accepts valid tag", func(t *testing.T) {
		t.Parallel()

		tag := TaskTagUrgent
		task, err := NewTask(userID, "Write report", "", nil, &tag)
		require.NoError(t, err)
		require.NotNil(t, task.Tag)
		assert.Equal(t, TaskTagUrgent, *task.Tag)
	})
}

func TestParseTaskState(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"todo", "doing", "done"} {
		state, err := ParseTaskState(valid)
		require.NoError(t, err)
		assert.Equal(t, TaskState(valid), state)
	}

	_, err := ParseTaskState("archived")
	assert.ErrorIs(t, err, ErrInvalidTaskState)
	assert.Contains(t, err.Error(), "archived")

	// Parsing is case-sensitive; enum values are lowercase.
	_, err = ParseTaskState("Todo")
	assert.ErrorIs(t, err, ErrInvalidTaskState)
}

func TestParseTaskTag(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"urgent", "important", "optional", "can_wait"} {
		tag, err := ParseTaskTag(valid)
		require.NoError(t, err)
		assert.Equal(t, TaskTag(valid), tag)
	}

	_, err := ParseTaskTag("critical")
	assert.ErrorIs(t, err, ErrInvalidTaskTag)
}

func TestTaskToggle(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "Cycle me", "", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, TaskStateDoing, task.Toggle())
	assert.Equal(t, TaskStateDone, task.Toggle())
	assert.Equal(t, TaskStateTodo, task.Toggle())

	// Three toggles are the identity on state.
	assert.Equal(t, TaskStateTodo, task.State)
}

func TestTaskMarkDone(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "Finish me", "", nil, nil)
	require.NoError(t, err)

	task.MarkDone()
	assert.Equal(t, TaskStateDone, task.State)

	// Marking an already done task is an absorbing no-op.
	task.MarkDone()
	assert.Equal(t, TaskStateDone, task.State)
}

func TestTaskOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("no due date is never overdue", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.New(), "No deadline", "", nil, nil)
		require.NoError(t, err)
		assert.False(t, task.Overdue(now))
	})

	t.Run("past due date is overdue unless done", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.New(), "Late", "", &past, nil)
		require.NoError(t, err)
		assert.True(t, task.Overdue(now))

		task.MarkDone()
		assert.False(t, task.Overdue(now))
	})

	t.Run("future due date is not overdue", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.New(), "On time", "", &future, nil)
		require.NoError(t, err)
		assert.False(t, task.Overdue(now))
	})
}
