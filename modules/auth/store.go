package auth

import (
	"context"

	domain "github.com/example/task-manager/domain/user"
)

// UserStore persists user accounts.
//
// Create returns ErrEmailExists for a duplicate email. Lookups return
// ErrUserNotFound when nothing matches, including for ids the store cannot
// parse.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// StoreConfig selects and configures the user store.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// profileChanges lists the columns written by a profile update.
func profileChanges(update domain.ProfileUpdate) map[string]any {
	changes := make(map[string]any, 2)
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.Bio != nil {
		changes["bio"] = *update.Bio
	}
	return changes
}
