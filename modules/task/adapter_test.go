package task

import (
	"context"
	"testing"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/internal/monotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTaskAdapter registers a memory-backed task module in an in-process
// container and returns an adapter bound to it.
func newTaskAdapter(t *testing.T) *TaskAdapter {
	t.Helper()

	container := monotest.NewContainer()
	m := NewModuleWithStore(newMemStore())
	require.NoError(t, m.RegisterServices(container))
	return NewTaskAdapter(container)
}

func TestTaskAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTaskAdapter(t)

	created, err := adapter.Create(ctx, "alice", CreateInput{Title: "Write report", Description: "quarterly"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)

	_, err = adapter.Create(ctx, "bob", CreateInput{Title: "bob's"})
	require.NoError(t, err)

	tasks, err := adapter.List(ctx, "alice", ListFilter{Search: "REPORT"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	empty, err := adapter.List(ctx, "carol", ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	updated, err := adapter.Update(ctx, "alice", created.ID, UpdateInput{Title: strPtr(""), Status: strPtr("completed")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Title)
	assert.Equal(t, "quarterly", updated.Description)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	require.NoError(t, adapter.Delete(ctx, "alice", created.ID))

	tasks, err = adapter.List(ctx, "alice", ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskAdapter_Errors(t *testing.T) {
	ctx := context.Background()
	adapter := newTaskAdapter(t)

	owned, err := adapter.Create(ctx, "bob", CreateInput{Title: "bob's"})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		_, err := adapter.Create(ctx, "alice", CreateInput{Description: "no title"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("foreign task is not found", func(t *testing.T) {
		_, err := adapter.Update(ctx, "alice", owned.ID, UpdateInput{Title: strPtr("hijack")})
		assert.ErrorIs(t, err, ErrNotFound)

		err = adapter.Delete(ctx, "alice", owned.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := adapter.Update(ctx, "alice", "not-an-id", UpdateInput{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrInvalidIdentifier)

		err = adapter.Delete(ctx, "alice", "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("empty owner", func(t *testing.T) {
		_, err := adapter.List(ctx, "", ListFilter{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "owner_id", verr.Field)
	})

	t.Run("unregistered service", func(t *testing.T) {
		bare := NewTaskAdapter(monotest.NewContainer())
		_, err := bare.List(ctx, "alice", ListFilter{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
