// Package task holds the task entity shared by the task, activity and api modules.
package task

import (
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every recognised status value.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// IsValid reports whether s is one of the recognised status values.
// Comparison is exact: "Completed" is not valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus returns the status named by raw and true, or false when raw
// is not a recognised value.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.IsValid()
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	OwnerID     string    `gorm:"index;not null;type:text" json:"owner_id"`
	Title       string    `gorm:"not null;type:text" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      Status    `gorm:"not null;type:text" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Query is an owner-scoped listing request as understood by storage.
// A nil Status and an empty Search match every task of the owner.
type Query struct {
	OwnerID string
	Status  *Status
	Search  string
}
