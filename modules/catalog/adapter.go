package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort is the port other modules use to reach the catalog.
type CatalogPort interface {
	List(ctx context.Context, f domain.Filter) (*Listing, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Recommendations(ctx context.Context, limit int) ([]domain.Product, error)
	Create(ctx context.Context, in domain.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (*Dashboard, error)
}

// CatalogAdapter implements CatalogPort over the catalog module's services.
type CatalogAdapter struct {
	container mono.ServiceContainer
}

var _ CatalogPort = (*CatalogAdapter)(nil)

// NewCatalogAdapter creates a new CatalogAdapter.
func NewCatalogAdapter(container mono.ServiceContainer) *CatalogAdapter {
	return &CatalogAdapter{container: container}
}

// List returns the filtered listing.
func (a *CatalogAdapter) List(ctx context.Context, f domain.Filter) (*Listing, error) {
	var resp ListProductsResponse
	if err := callService(ctx, a.container, "list-products", &ListProductsRequest{Search: f.Search, Category: f.Category}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Listing == nil {
		return nil, fmt.Errorf("list-products returned an empty listing")
	}
	return resp.Listing, nil
}

// Get returns the product with id.
func (a *CatalogAdapter) Get(ctx context.Context, id string) (*domain.Product, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "get-product", &GetProductRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return productOrError(resp)
}

// GetBySlug returns the product with slug.
func (a *CatalogAdapter) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "get-product", &GetProductRequest{Slug: slug}, &resp); err != nil {
		return nil, err
	}
	return productOrError(resp)
}

// Recommendations returns the best stocked products.
func (a *CatalogAdapter) Recommendations(ctx context.Context, limit int) ([]domain.Product, error) {
	var resp ProductsResponse
	if err := callService(ctx, a.container, "recommend-products", &RecommendationsRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Products == nil {
		return []domain.Product{}, nil
	}
	return resp.Products, nil
}

// Create adds a product.
func (a *CatalogAdapter) Create(ctx context.Context, in domain.CreateInput) (*domain.Product, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "create-product", &CreateProductRequest{Product: in}, &resp); err != nil {
		return nil, err
	}
	return productOrError(resp)
}

// Update changes a product.
func (a *CatalogAdapter) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Product, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "update-product", &UpdateProductRequest{ID: id, Update: in}, &resp); err != nil {
		return nil, err
	}
	return productOrError(resp)
}

// Delete removes a product.
func (a *CatalogAdapter) Delete(ctx context.Context, id string) error {
	var resp DeleteProductResponse
	if err := callService(ctx, a.container, "delete-product", &DeleteProductRequest{ID: id}, &resp); err != nil {
		return err
	}
	return resp.Error.Err()
}

// Dashboard returns the inventory dashboard.
func (a *CatalogAdapter) Dashboard(ctx context.Context) (*Dashboard, error) {
	var resp DashboardResponse
	if err := callService(ctx, a.container, "inventory-dashboard", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Dashboard == nil {
		return nil, fmt.Errorf("inventory-dashboard returned an empty dashboard")
	}
	return resp.Dashboard, nil
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

func productOrError(resp ProductResponse) (*domain.Product, error) {
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Product == nil {
		return nil, ErrNotFound
	}
	return resp.Product, nil
}
