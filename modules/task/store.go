package task

import (
	"context"

	domain "github.com/example/task-manager/domain/task"
)

// Store is the persistence port used by the Controller.
//
// Implementations generate the id and timestamps on Insert, return
// ErrInvalidIdentifier for ids they cannot parse, and ErrNotFound when no
// task matches both the id and the owner. Search in a Query is a
// case-insensitive substring match on the title.
type Store interface {
	Find(ctx context.Context, q domain.Query) ([]domain.Task, error)
	Insert(ctx context.Context, t *domain.Task) error
	FindOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	Save(ctx context.Context, t *domain.Task) error
	DeleteOwned(ctx context.Context, ownerID, taskID string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
