package catalog

import (
	"context"

	domain "github.com/example/task-manager/domain/product"
)

// Repository persists products.
//
// Get, Update and Delete return ErrNotFound for unknown ids and ErrInvalidID
// for ids that are not UUIDs. Create and Update return ErrDuplicateSlug when
// the slug is taken.
type Repository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	TopByInventory(ctx context.Context, limit int) ([]domain.Product, error)
	ListByInventory(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close()
}
