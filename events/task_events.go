// Package events declares the typed events exchanged between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted after a task is inserted.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is published on events.task.v1.task-created.
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted after a task update is saved. Changed lists
// the fields whose stored value differs from before the update.
type TaskUpdatedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Changed   []string  `json:"changed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is published on events.task.v1.task-updated.
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskDeletedEvent is emitted after a task is removed.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is published on events.task.v1.task-deleted.
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
