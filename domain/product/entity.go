// Package product defines the storefront catalog entities.
package product

import (
	"strings"
	"time"
	"unicode"
)

// Product is a catalog item.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Inventory   int       `json:"inventory"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// AllCategories is the category value that disables category filtering.
const AllCategories = "all"

// Normalize trims the filter and maps the "all" category to no filter.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	if strings.EqualFold(f.Category, AllCategories) {
		f.Category = ""
	}
	return f
}

// CreateInput is the data needed to add a product.
type CreateInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Inventory   int     `json:"inventory"`
	ImageURL    string  `json:"image_url"`
}

// UpdateInput carries a partial product update. Nil means unchanged.
type UpdateInput struct {
	Name        *string  `json:"name,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Inventory   *int     `json:"inventory,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// Apply copies the set fields of in onto p.
func (in UpdateInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Inventory != nil {
		p.Inventory = *in.Inventory
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
}

// Slugify turns a product name into a URL-safe slug:
// "Ergo Chair (Mk II)" becomes "ergo-chair-mk-ii".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
