package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"

	domain "github.com/example/task-manager/domain/product"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultRecommendationLimit is used when a caller asks for no limit.
const DefaultRecommendationLimit = 6

// maxRecommendationLimit bounds caller-supplied limits.
const maxRecommendationLimit = 50

// Cache is the subset of the Redis cache used by the catalog.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// Options tune catalog behaviour.
type Options struct {
	LowStockThreshold   int
	RecommendationLimit int
}

// Listing is a filtered product list plus every known category.
type Listing struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	Total      int              `json:"total"`
}

// DashboardItem is a product annotated with its stock level.
type DashboardItem struct {
	domain.Product
	StockLevel domain.StockLevel `json:"stock_level"`
}

// Dashboard is the admin inventory view.
type Dashboard struct {
	Products []DashboardItem       `json:"products"`
	Stats    domain.InventoryStats `json:"stats"`
}

// Service implements catalog reads with cache-aside and admin writes.
type Service struct {
	repo    Repository
	cache   Cache
	opts    Options
	sfGroup singleflight.Group
}

// NewService creates a Service. A nil cache disables caching.
func NewService(repo Repository, cache Cache, opts Options) *Service {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = domain.DefaultLowStockThreshold
	}
	if opts.RecommendationLimit <= 0 {
		opts.RecommendationLimit = DefaultRecommendationLimit
	}
	return &Service{
		repo:  repo,
		cache: cache,
		opts:  opts,
	}
}

// List returns products matching f and the full category list.
func (s *Service) List(ctx context.Context, f domain.Filter) (*Listing, error) {
	f = f.Normalize()
	var listing Listing
	err := s.cached(ctx, listCacheKey(f), &listing, func() (any, error) {
		products, err := s.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, err
		}
		return &Listing{Products: products, Categories: categories, Total: len(products)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Get returns the product with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	var p domain.Product
	err := s.cached(ctx, "product:"+id, &p, func() (any, error) {
		return s.repo.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns the product with slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	var p domain.Product
	err := s.cached(ctx, "slug:"+slug, &p, func() (any, error) {
		return s.repo.GetBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Recommendations returns the limit products with the most stock.
func (s *Service) Recommendations(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = s.opts.RecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	var products []domain.Product
	err := s.cached(ctx, fmt.Sprintf("recommendations:%d", limit), &products, func() (any, error) {
		return s.repo.TopByInventory(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create validates in and inserts a product. An empty slug is derived from
// the name.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Product, error) {
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Inventory:   in.Inventory,
		ImageURL:    in.ImageURL,
	}
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Name)
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Created product %s (%s)", p.ID, p.Slug)
	return p, nil
}

// Update applies a partial update to the product with id.
func (s *Service) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(p)
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Category = strings.TrimSpace(p.Category)
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Updated product %s", p.ID)
	return p, nil
}

// Delete removes the product with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Deleted product %s", id)
	return nil
}

// Dashboard reads the inventory view straight from storage.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.repo.ListByInventory(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]DashboardItem, len(products))
	for i, p := range products {
		items[i] = DashboardItem{
			Product:    p,
			StockLevel: domain.StockLevelOf(p.Inventory, s.opts.LowStockThreshold),
		}
	}

	return &Dashboard{
		Products: items,
		Stats:    domain.ComputeInventoryStats(products, s.opts.LowStockThreshold),
	}, nil
}

// cached implements cache-aside: dest is filled from the cache on a hit,
// otherwise load runs once per key across concurrent callers and its result
// is stored. Cache failures fall through to storage.
func (s *Service) cached(ctx context.Context, key string, dest any, load func() (any, error)) error {
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			log.Printf("[catalog] Cache error for %s: %v", key, err)
		}
		if found {
			return nil
		}
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, v); err != nil {
				log.Printf("[catalog] Warning: failed to cache %s: %v", key, err)
			}
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	return assign(dest, val)
}

// listCacheKey identifies a normalized listing. Both parts are quoted so a
// separator inside a category or search cannot collide with another pair.
func listCacheKey(f domain.Filter) string {
	return fmt.Sprintf("list:%q:%q", f.Category, strings.ToLower(f.Search))
}

// invalidate drops every cached catalog read.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, "*"); err != nil {
		log.Printf("[catalog] Warning: failed to invalidate cache: %v", err)
	}
}

func assign(dest, val any) error {
	switch d := dest.(type) {
	case *Listing:
		*d = *val.(*Listing)
	case *domain.Product:
		*d = *val.(*domain.Product)
	case *[]domain.Product:
		*d = val.([]domain.Product)
	default:
		return fmt.Errorf("unsupported cache destination %T", dest)
	}
	return nil
}

func validateProduct(p *domain.Product) error {
	switch {
	case p.Name == "":
		return &ValidationError{Field: "name", Message: "Name is required"}
	case p.Category == "":
		return &ValidationError{Field: "category", Message: "Category is required"}
	case p.Slug == "":
		return &ValidationError{Field: "slug", Message: "Slug is required"}
	case p.Slug != domain.Slugify(p.Slug):
		return &ValidationError{Field: "slug", Message: "Slug must be lowercase words joined by dashes"}
	case p.Price < 0:
		return &ValidationError{Field: "price", Message: "Price must not be negative"}
	case p.Inventory < 0:
		return &ValidationError{Field: "inventory", Message: "Inventory must not be negative"}
	}
	return nil
}
