package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/task-manager/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Config configures the catalog module.
type Config struct {
	DatabaseURL string
	Options     Options
}

// CatalogModule serves the storefront catalog over PostgreSQL.
type CatalogModule struct {
	cfg     Config
	cache   Cache
	repo    Repository
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*CatalogModule)(nil)
	_ mono.ServiceProviderModule = (*CatalogModule)(nil)
	_ mono.HealthCheckableModule = (*CatalogModule)(nil)
)

// NewModule creates a CatalogModule that connects on Start. cache may be nil.
func NewModule(cfg Config, cache Cache) *CatalogModule {
	return &CatalogModule{cfg: cfg, cache: cache}
}

// NewModuleWithRepository creates a CatalogModule around an open repository.
func NewModuleWithRepository(repo Repository, cache Cache, opts Options) *CatalogModule {
	return &CatalogModule{
		cfg:     Config{Options: opts},
		cache:   cache,
		repo:    repo,
		service: NewService(repo, cache, opts),
	}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// Start connects to PostgreSQL and applies the schema.
func (m *CatalogModule) Start(ctx context.Context) error {
	if m.repo != nil {
		log.Println("[catalog] Module started with injected repository")
		return nil
	}

	log.Printf("[catalog] Connecting to PostgreSQL...")
	repo, err := ConnectPostgres(ctx, m.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	m.repo = repo
	m.service = NewService(repo, m.cache, m.cfg.Options)

	log.Printf("[catalog] Module started (cache: %t)", m.cache != nil)
	return nil
}

// Stop closes the connection pool.
func (m *CatalogModule) Stop(_ context.Context) error {
	if m.repo != nil {
		m.repo.Close()
	}
	log.Println("[catalog] Module stopped")
	return nil
}

// Health pings the database.
func (m *CatalogModule) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database pool not initialized",
		}
	}

	if err := m.repo.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "pgx/v5",
			"cached": m.cache != nil,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "recommend-products", json.Unmarshal, json.Marshal, m.handleRecommendations,
	); err != nil {
		return fmt.Errorf("failed to register recommend-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-product", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-product", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-product", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "inventory-dashboard", json.Unmarshal, json.Marshal, m.handleDashboard,
	); err != nil {
		return fmt.Errorf("failed to register inventory-dashboard service: %w", err)
	}

	log.Printf("[catalog] Registered services: list-products, get-product, recommend-products, create-product, update-product, delete-product, inventory-dashboard")
	return nil
}

func (m *CatalogModule) handleList(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	listing, err := m.service.List(ctx, domain.Filter{Search: req.Search, Category: req.Category})
	if err != nil {
		logInternal("list", err)
		return ListProductsResponse{Error: toServiceError(err)}, nil
	}
	return ListProductsResponse{Listing: listing}, nil
}

func (m *CatalogModule) handleGet(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	var (
		product *domain.Product
		err     error
	)
	if req.ID != "" {
		product, err = m.service.Get(ctx, req.ID)
	} else {
		product, err = m.service.GetBySlug(ctx, req.Slug)
	}
	if err != nil {
		logInternal("get", err)
		return ProductResponse{Error: toServiceError(err)}, nil
	}
	return ProductResponse{Product: product}, nil
}

func (m *CatalogModule) handleRecommendations(ctx context.Context, req RecommendationsRequest, _ *mono.Msg) (ProductsResponse, error) {
	products, err := m.service.Recommendations(ctx, req.Limit)
	if err != nil {
		logInternal("recommendations", err)
		return ProductsResponse{Error: toServiceError(err)}, nil
	}
	return ProductsResponse{Products: products}, nil
}

func (m *CatalogModule) handleCreate(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	product, err := m.service.Create(ctx, req.Product)
	if err != nil {
		logInternal("create", err)
		return ProductResponse{Error: toServiceError(err)}, nil
	}
	return ProductResponse{Product: product}, nil
}

func (m *CatalogModule) handleUpdate(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	product, err := m.service.Update(ctx, req.ID, req.Update)
	if err != nil {
		logInternal("update", err)
		return ProductResponse{Error: toServiceError(err)}, nil
	}
	return ProductResponse{Product: product}, nil
}

func (m *CatalogModule) handleDelete(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		logInternal("delete", err)
		return DeleteProductResponse{Error: toServiceError(err)}, nil
	}
	return DeleteProductResponse{Deleted: true}, nil
}

func (m *CatalogModule) handleDashboard(ctx context.Context, _ struct{}, _ *mono.Msg) (DashboardResponse, error) {
	dashboard, err := m.service.Dashboard(ctx)
	if err != nil {
		logInternal("dashboard", err)
		return DashboardResponse{Error: toServiceError(err)}, nil
	}
	return DashboardResponse{Dashboard: dashboard}, nil
}

func logInternal(op string, err error) {
	if toServiceError(err).Code == CodeInternal {
		log.Printf("[catalog] %s failed: %v", op, err)
	}
}
