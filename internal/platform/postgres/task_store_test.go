package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

func TestListClauses(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	normalized := func(p store.TaskListParams) store.TaskListParams {
		p.Normalize()
		return p
	}

	t.Run("bare listing scopes to owner", func(t *testing.T) {
		t.Parallel()

		where, orderBy, args, err := listClauses(userID, normalized(store.TaskListParams{}))
		require.NoError(t, err)

		assert.Equal(t, "WHERE user_id = $1", where)
		assert.Equal(t, "ORDER BY created_on DESC", orderBy)
		assert.Equal(t, []any{userID}, args)
	})

	t.Run("state filter adds placeholder", func(t *testing.T) {
		t.Parallel()

		where, _, args, err := listClauses(userID, normalized(store.TaskListParams{State: "doing"}))
		require.NoError(t, err)

		assert.Equal(t, "WHERE user_id = $1 AND state = $2", where)
		assert.Equal(t, []any{userID, domain.TaskStateDoing}, args)
	})

	t.Run("invalid state fails the whole call", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := listClauses(userID, normalized(store.TaskListParams{State: "archived"}))
		assert.ErrorIs(t, err, domain.ErrInvalidTaskState)
	})

	t.Run("invalid tag fails the whole call", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := listClauses(userID, normalized(store.TaskListParams{Tag: "critical"}))
		assert.ErrorIs(t, err, domain.ErrInvalidTaskTag)
	})

	t.Run("search matches title or description", func(t *testing.T) {
		t.Parallel()

		where, _, args, err := listClauses(userID, normalized(store.TaskListParams{Search: "report"}))
		require.NoError(t, err)

		assert.Equal(t, "WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2)", where)
		assert.Equal(t, []any{userID, "%report%"}, args)
	})

	t.Run("combined filters keep placeholder order", func(t *testing.T) {
		t.Parallel()

		params := normalized(store.TaskListParams{
			State:     "todo",
			Tag:       "urgent",
			Search:    "q",
			SortBy:    store.TaskSortDueDate,
			SortOrder: "asc",
		})
		where, orderBy, args, err := listClauses(userID, params)
		require.NoError(t, err)

		assert.Equal(t,
			"WHERE user_id = $1 AND state = $2 AND tag = $3 AND (title ILIKE $4 OR description ILIKE $4)",
			where)
		assert.Equal(t, "ORDER BY due_date ASC", orderBy)
		assert.Len(t, args, 4)
	})

	t.Run("sort identifiers are clamped before interpolation", func(t *testing.T) {
		t.Parallel()

		// Normalize rejects unknown sort fields, so the interpolated
		// identifier can only ever be one of the four known columns.
		params := normalized(store.TaskListParams{SortBy: "due_date; DROP TABLE tasks"})
		_, orderBy, _, err := listClauses(userID, params)
		require.NoError(t, err)
		assert.Equal(t, "ORDER BY created_on DESC", orderBy)
	})
}
