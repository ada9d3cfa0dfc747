package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
)

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.controller.List(ctx, req.OwnerID, ListFilter{Status: req.Status, Search: req.Search})
	if err != nil {
		logStorageError("list", err)
		return ListTasksResponse{Error: toServiceError(err)}, nil
	}

	return ListTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	}, nil
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.controller.Create(ctx, req.OwnerID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		logStorageError("create", err)
		return TaskResponse{Error: toServiceError(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Title:     t.Title,
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return TaskResponse{Task: t}, nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, changed, err := m.controller.Update(ctx, req.OwnerID, req.TaskID, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		logStorageError("update", err)
		return TaskResponse{Error: toServiceError(err)}, nil
	}

	if m.eventBus != nil && len(changed) > 0 {
		event := events.TaskUpdatedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Title:     t.Title,
			Status:    string(t.Status),
			Changed:   changed,
			UpdatedAt: t.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", t.ID, err)
		}
	}

	return TaskResponse{Task: t}, nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	t, err := m.controller.Delete(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		logStorageError("delete", err)
		return DeleteTaskResponse{Deleted: false, Error: toServiceError(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Title:     t.Title,
			DeletedAt: time.Now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", t.ID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

func logStorageError(op string, err error) {
	var serr *StorageError
	if errors.As(err, &serr) {
		log.Printf("[task] %s failed: %v", op, err)
	}
}
