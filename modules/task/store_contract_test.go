package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeHarness describes how to build a store for the shared contract.
type storeHarness struct {
	newStore  func(t *testing.T) Store
	missingID func() string
	badID     string
}

// tickingClock returns a clock that advances one second per call, so
// insertion order is reflected in created_at.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.Title
	}
	return out
}

func strPtr(s string) *string { return &s }

// runStoreContract exercises the controller against a store implementation.
func runStoreContract(t *testing.T, h storeHarness) {
	ctx := context.Background()

	newController := func(t *testing.T) *Controller {
		return NewController(h.newStore(t))
	}

	t.Run("create applies defaults", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "alice", CreateInput{Title: "Buy milk"})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice", created.OwnerID)
		assert.Equal(t, "", created.Description)
		assert.Equal(t, domain.StatusPending, created.Status)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("create rejects empty title", func(t *testing.T) {
		c := newController(t)

		_, err := c.Create(ctx, "alice", CreateInput{Title: "", Description: "no title"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)

		tasks, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("create stores unrecognised status as given", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "alice", CreateInput{Title: "Odd", Status: "archived"})
		require.NoError(t, err)
		assert.Equal(t, domain.Status("archived"), created.Status)

		tasks, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.Status("archived"), tasks[0].Status)
	})

	t.Run("list is scoped to owner and newest first", func(t *testing.T) {
		c := newController(t)

		for _, title := range []string{"first", "second", "third"} {
			_, err := c.Create(ctx, "alice", CreateInput{Title: title})
			require.NoError(t, err)
		}
		_, err := c.Create(ctx, "bob", CreateInput{Title: "bob's"})
		require.NoError(t, err)

		tasks, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, titles(tasks))
		for _, tk := range tasks {
			assert.Equal(t, "alice", tk.OwnerID)
		}

		tasks, err = c.List(ctx, "carol", ListFilter{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("list filters by status", func(t *testing.T) {
		c := newController(t)

		_, err := c.Create(ctx, "alice", CreateInput{Title: "todo"})
		require.NoError(t, err)
		_, err = c.Create(ctx, "alice", CreateInput{Title: "done", Status: "completed"})
		require.NoError(t, err)
		_, err = c.Create(ctx, "bob", CreateInput{Title: "bob done", Status: "completed"})
		require.NoError(t, err)

		tasks, err := c.List(ctx, "alice", ListFilter{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, []string{"done"}, titles(tasks))

		unfiltered, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		bogus, err := c.List(ctx, "alice", ListFilter{Status: "archived"})
		require.NoError(t, err)
		assert.Equal(t, titles(unfiltered), titles(bogus))
		assert.Len(t, bogus, 2)
	})

	t.Run("search is case-insensitive substring on title", func(t *testing.T) {
		c := newController(t)

		for _, title := range []string{"Catalog", "scatter", "Dog"} {
			_, err := c.Create(ctx, "alice", CreateInput{Title: title, Description: "cat"})
			require.NoError(t, err)
		}

		tasks, err := c.List(ctx, "alice", ListFilter{Search: "cat"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Catalog", "scatter"}, titles(tasks))

		tasks, err = c.List(ctx, "alice", ListFilter{Search: "CAT"})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("search folds non-ASCII letters", func(t *testing.T) {
		c := newController(t)

		for _, title := range []string{"École notes", "ÜBER plan", "Straße"} {
			_, err := c.Create(ctx, "alice", CreateInput{Title: title})
			require.NoError(t, err)
		}

		tests := []struct {
			search string
			want   []string
		}{
			{"école", []string{"École notes"}},
			{"ÉCOLE", []string{"École notes"}},
			{"über", []string{"ÜBER plan"}},
			{"STRAßE", []string{"Straße"}},
		}
		for _, tt := range tests {
			tasks, err := c.List(ctx, "alice", ListFilter{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(tasks), "search %q", tt.search)
		}
	})

	t.Run("search treats pattern characters literally", func(t *testing.T) {
		c := newController(t)

		for _, title := range []string{"100% done", "1000 done", "a.b", "axb"} {
			_, err := c.Create(ctx, "alice", CreateInput{Title: title})
			require.NoError(t, err)
		}

		tasks, err := c.List(ctx, "alice", ListFilter{Search: "0%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% done"}, titles(tasks))

		tasks, err = c.List(ctx, "alice", ListFilter{Search: "a.b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.b"}, titles(tasks))
	})

	t.Run("update overwrites supplied fields", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "alice", CreateInput{Title: "draft", Description: "notes"})
		require.NoError(t, err)

		updated, changed, err := c.Update(ctx, "alice", created.ID, UpdateInput{
			Title:  strPtr(""),
			Status: strPtr("completed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "", updated.Title)
		assert.Equal(t, "notes", updated.Description)
		assert.Equal(t, domain.StatusCompleted, updated.Status)
		assert.Equal(t, []string{"title", "status"}, changed)

		tasks, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "", tasks[0].Title)
		assert.Equal(t, domain.StatusCompleted, tasks[0].Status)
		assert.True(t, tasks[0].CreatedAt.Equal(created.CreatedAt))
	})

	t.Run("update ignores unrecognised status", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "alice", CreateInput{Title: "keep", Status: "in-progress"})
		require.NoError(t, err)

		updated, changed, err := c.Update(ctx, "alice", created.ID, UpdateInput{Status: strPtr("archived")})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Empty(t, changed)

		tasks, err := c.List(ctx, "alice", ListFilter{Status: "in-progress"})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("update of another owner's task is not found", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "bob", CreateInput{Title: "bob's"})
		require.NoError(t, err)

		_, _, errForeign := c.Update(ctx, "alice", created.ID, UpdateInput{Title: strPtr("hijack")})
		_, _, errMissing := c.Update(ctx, "alice", h.missingID(), UpdateInput{Title: strPtr("hijack")})
		assert.ErrorIs(t, errForeign, ErrNotFound)
		assert.ErrorIs(t, errMissing, ErrNotFound)
		assert.Equal(t, errMissing.Error(), errForeign.Error())

		tasks, err := c.List(ctx, "bob", ListFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "bob's", tasks[0].Title)
	})

	t.Run("malformed id is an invalid identifier", func(t *testing.T) {
		c := newController(t)

		_, _, err := c.Update(ctx, "alice", h.badID, UpdateInput{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrInvalidIdentifier)

		_, err = c.Delete(ctx, "alice", h.badID)
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("delete removes the task for good", func(t *testing.T) {
		c := newController(t)

		keep, err := c.Create(ctx, "alice", CreateInput{Title: "keep"})
		require.NoError(t, err)
		gone, err := c.Create(ctx, "alice", CreateInput{Title: "gone"})
		require.NoError(t, err)

		deleted, err := c.Delete(ctx, "alice", gone.ID)
		require.NoError(t, err)
		assert.Equal(t, gone.ID, deleted.ID)

		tasks, err := c.List(ctx, "alice", ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{keep.Title}, titles(tasks))

		_, err = c.Delete(ctx, "alice", gone.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete of another owner's task is not found", func(t *testing.T) {
		c := newController(t)

		created, err := c.Create(ctx, "bob", CreateInput{Title: "bob's"})
		require.NoError(t, err)

		_, err = c.Delete(ctx, "alice", created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		tasks, err := c.List(ctx, "bob", ListFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("repeated lists are identical", func(t *testing.T) {
		c := newController(t)

		for _, title := range []string{"a", "b", "c"} {
			_, err := c.Create(ctx, "alice", CreateInput{Title: title})
			require.NoError(t, err)
		}

		first, err := c.List(ctx, "alice", ListFilter{Search: ""})
		require.NoError(t, err)
		second, err := c.List(ctx, "alice", ListFilter{Search: ""})
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
			assert.Equal(t, first[i].Title, second[i].Title)
		}
	})
}

func TestClassify(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	tests := []struct {
		name string
		err  error
		want func(t *testing.T, got error)
	}{
		{
			name: "nil",
			err:  nil,
			want: func(t *testing.T, got error) { assert.NoError(t, got) },
		},
		{
			name: "not found passes through",
			err:  ErrNotFound,
			want: func(t *testing.T, got error) { assert.Same(t, ErrNotFound, got) },
		},
		{
			name: "validation passes through",
			err:  &ValidationError{Field: "title", Message: "Title is required"},
			want: func(t *testing.T, got error) {
				var verr *ValidationError
				assert.ErrorAs(t, got, &verr)
			},
		},
		{
			name: "unknown error becomes storage error",
			err:  driverErr,
			want: func(t *testing.T, got error) {
				var serr *StorageError
				require.ErrorAs(t, got, &serr)
				assert.Equal(t, "find", serr.Op)
				assert.ErrorIs(t, got, driverErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, classify("find", tt.err))
		})
	}
}
