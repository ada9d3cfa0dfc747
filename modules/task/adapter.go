package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the port other modules use to reach the task controller.
// Every call names the owner explicitly.
type TaskPort interface {
	List(ctx context.Context, ownerID string, f ListFilter) ([]domain.Task, error)
	Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// TaskAdapter implements TaskPort over the task module's services.
type TaskAdapter struct {
	container mono.ServiceContainer
}

var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{container: container}
}

// List returns the owner's tasks matching f.
func (a *TaskAdapter) List(ctx context.Context, ownerID string, f ListFilter) ([]domain.Task, error) {
	req := ListTasksRequest{OwnerID: ownerID, Status: f.Status, Search: f.Search}
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Tasks == nil {
		return []domain.Task{}, nil
	}
	return resp.Tasks, nil
}

// Create adds a task for ownerID.
func (a *TaskAdapter) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	req := CreateTaskRequest{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	var resp TaskResponse
	if err := callService(ctx, a.container, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskOrError(resp)
}

// Update applies a partial update to an owned task.
func (a *TaskAdapter) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*domain.Task, error) {
	req := UpdateTaskRequest{
		OwnerID:     ownerID,
		TaskID:      taskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	var resp TaskResponse
	if err := callService(ctx, a.container, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskOrError(resp)
}

// Delete removes an owned task.
func (a *TaskAdapter) Delete(ctx context.Context, ownerID, taskID string) error {
	req := DeleteTaskRequest{OwnerID: ownerID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := callService(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	return resp.Error.Err()
}

// callService sends req to the named request-reply service and decodes the
// reply into resp.
func callService[Resp any](ctx context.Context, container mono.ServiceContainer, service string, req any, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func taskOrError(resp TaskResponse) (*domain.Task, error) {
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Task == nil {
		return nil, &StorageError{Op: "remote", Err: fmt.Errorf("empty task response")}
	}
	return resp.Task, nil
}
