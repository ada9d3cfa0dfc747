package task

import (
	domain "github.com/example/task-manager/domain/task"
)

// ListTasksRequest represents a list-tasks request.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Status  string `json:"status,omitempty"`
	Search  string `json:"search,omitempty"`
}

// ListTasksResponse represents a list-tasks response.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
	Error *ServiceError `json:"error,omitempty"`
}

// CreateTaskRequest represents a create-task request.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UpdateTaskRequest represents an update-task request. Nil fields are not
// part of the update; a non-nil empty string is.
type UpdateTaskRequest struct {
	OwnerID     string  `json:"owner_id"`
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TaskResponse carries a single task or an error.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// DeleteTaskRequest represents a delete-task request.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
}

// DeleteTaskResponse represents a delete-task response.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	Error   *ServiceError `json:"error,omitempty"`
}
