package task

import (
	"context"
	"log"

	domain "github.com/example/task-manager/domain/task"
)

// ListFilter holds the raw listing filters supplied by a caller.
type ListFilter struct {
	Status string
	Search string
}

// CreateInput holds the fields of a new task. Empty Description and Status
// fall back to "" and "pending".
type CreateInput struct {
	Title       string
	Description string
	Status      string
}

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
}

// Controller scopes every task read and write to the requesting owner.
// It holds no state besides the store.
type Controller struct {
	store Store
}

// NewController creates a Controller backed by store.
func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// BuildQuery turns an owner and raw filters into a storage query.
// Unrecognised status values are dropped, so they filter nothing.
func BuildQuery(ownerID string, f ListFilter) domain.Query {
	q := domain.Query{
		OwnerID: ownerID,
		Search:  f.Search,
	}
	if status, ok := domain.ParseStatus(f.Status); ok {
		q.Status = &status
	}
	return q
}

// List returns the owner's tasks matching f, newest first.
func (c *Controller) List(ctx context.Context, ownerID string, f ListFilter) ([]domain.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	tasks, err := c.store.Find(ctx, BuildQuery(ownerID, f))
	if err != nil {
		return nil, classify("find", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Create inserts a task owned by ownerID.
//
// Status is not checked against the enumeration here: a non-empty value is
// stored as given and a warning is logged.
func (c *Controller) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "Title is required"}
	}

	status := domain.StatusPending
	if in.Status != "" {
		status = domain.Status(in.Status)
		if !status.IsValid() {
			log.Printf("[task] Warning: storing unrecognised status %q for owner %s", in.Status, ownerID)
		}
	}

	t := &domain.Task{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	}
	if err := c.store.Insert(ctx, t); err != nil {
		return nil, classify("insert", err)
	}
	return t, nil
}

// Update overwrites the supplied fields of an owned task and returns it
// together with the names of the fields whose value changed. Title and
// description are written verbatim, even when empty. A status outside the
// enumeration is discarded.
func (c *Controller) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*domain.Task, []string, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, nil, err
	}

	t, err := c.store.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, nil, classify("find", err)
	}

	var changed []string
	if in.Title != nil {
		if t.Title != *in.Title {
			changed = append(changed, "title")
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		if t.Description != *in.Description {
			changed = append(changed, "description")
		}
		t.Description = *in.Description
	}
	if in.Status != nil {
		if status, ok := domain.ParseStatus(*in.Status); ok {
			if t.Status != status {
				changed = append(changed, "status")
			}
			t.Status = status
		}
	}

	if err := c.store.Save(ctx, t); err != nil {
		return nil, nil, classify("save", err)
	}
	return t, changed, nil
}

// Delete permanently removes an owned task and returns its last state.
func (c *Controller) Delete(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	t, err := c.store.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, classify("find", err)
	}
	if err := c.store.DeleteOwned(ctx, ownerID, taskID); err != nil {
		return nil, classify("delete", err)
	}
	return t, nil
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return &ValidationError{Field: "owner_id", Message: "Owner is required"}
	}
	return nil
}
