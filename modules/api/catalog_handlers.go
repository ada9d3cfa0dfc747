package api

import (
	productdomain "github.com/example/task-manager/domain/product"
	"github.com/gofiber/fiber/v2"
)

// ListProducts returns the storefront listing.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	listing, err := h.catalog.List(c.UserContext(), productdomain.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(listing)
}

// Recommendations returns the best stocked products.
func (h *Handlers) Recommendations(c *fiber.Ctx) error {
	products, err := h.catalog.Recommendations(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(products)
}

// ProductBySlug returns one product by slug.
func (h *Handlers) ProductBySlug(c *fiber.Ctx) error {
	p, err := h.catalog.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(p)
}

// ProductByID returns one product by id.
func (h *Handlers) ProductByID(c *fiber.Ctx) error {
	p, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(p)
}

// InventoryDashboard returns the admin inventory view.
func (h *Handlers) InventoryDashboard(c *fiber.Ctx) error {
	dashboard, err := h.catalog.Dashboard(c.UserContext())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(dashboard)
}

// CreateProduct adds a product.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	p, err := h.catalog.Create(c.UserContext(), productdomain.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Inventory:   req.Inventory,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProduct changes the supplied fields of a product.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	p, err := h.catalog.Update(c.UserContext(), c.Params("id"), productdomain.UpdateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Inventory:   req.Inventory,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(p)
}

// DeleteProduct removes a product.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("id")); err != nil {
		return catalogError(c, err)
	}
	return c.JSON(MessageResponse{Message: "Product removed"})
}
