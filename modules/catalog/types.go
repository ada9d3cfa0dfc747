package catalog

import (
	domain "github.com/example/task-manager/domain/product"
)

// ListProductsRequest filters the public listing.
type ListProductsRequest struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// ListProductsResponse carries a listing or an error.
type ListProductsResponse struct {
	Listing *Listing      `json:"listing,omitempty"`
	Error   *ServiceError `json:"error,omitempty"`
}

// GetProductRequest looks a product up by id or slug. ID wins when both
// are set.
type GetProductRequest struct {
	ID   string `json:"id,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// ProductResponse carries a product or an error.
type ProductResponse struct {
	Product *domain.Product `json:"product,omitempty"`
	Error   *ServiceError   `json:"error,omitempty"`
}

// RecommendationsRequest asks for the best stocked products.
type RecommendationsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ProductsResponse carries a product list or an error.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Error    *ServiceError    `json:"error,omitempty"`
}

// CreateProductRequest adds a product.
type CreateProductRequest struct {
	Product domain.CreateInput `json:"product"`
}

// UpdateProductRequest changes the set fields of a product.
type UpdateProductRequest struct {
	ID     string             `json:"id"`
	Update domain.UpdateInput `json:"update"`
}

// DeleteProductRequest removes a product.
type DeleteProductRequest struct {
	ID string `json:"id"`
}

// DeleteProductResponse reports a deletion.
type DeleteProductResponse struct {
	Deleted bool          `json:"deleted"`
	Error   *ServiceError `json:"error,omitempty"`
}

// DashboardResponse carries the inventory dashboard or an error.
type DashboardResponse struct {
	Dashboard *Dashboard    `json:"dashboard,omitempty"`
	Error     *ServiceError `json:"error,omitempty"`
}
