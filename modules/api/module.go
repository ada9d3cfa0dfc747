package api

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":5000"

// Config configures the API module.
type Config struct {
	Addr           string
	CORSOrigin     string
	ProxyHeader    string
	CatalogEnabled bool
	Limiter        ratelimit.Limiter
	Health         HealthFunc
}

// APIModule is the HTTP API module.
type APIModule struct {
	cfg      Config
	app      *fiber.App
	addr     string
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
	catalog  catalog.CatalogPort
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule.
func NewModule(cfg Config) *APIModule {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	deps := []string{"auth", "task", "activity"}
	if m.cfg.CatalogEnabled {
		deps = append(deps, "catalog")
	}
	return deps
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.auth = auth.NewAuthAdapter(container)
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	case "activity":
		m.activity = activity.NewActivityAdapter(container)
	case "catalog":
		m.catalog = catalog.NewCatalogAdapter(container)
	}
}

// Start builds the router and begins serving.
func (m *APIModule) Start(_ context.Context) error {
	if m.auth == nil || m.tasks == nil || m.activity == nil {
		return fmt.Errorf("api dependencies not set")
	}
	if m.cfg.CatalogEnabled && m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}

	deps := Deps{
		Auth:        m.auth,
		Tasks:       m.tasks,
		Activity:    m.activity,
		Limiter:     m.cfg.Limiter,
		Health:      m.cfg.Health,
		CORSOrigin:  m.cfg.CORSOrigin,
		ProxyHeader: m.cfg.ProxyHeader,
		AccessLog:   true,
	}
	if m.cfg.CatalogEnabled {
		deps.Catalog = m.catalog
	}
	m.app = NewRouter(deps)

	ln, err := net.Listen("tcp", m.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.cfg.Addr, err)
	}
	m.addr = ln.Addr().String()

	go func() {
		if err := m.app.Listener(ln); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s (catalog: %t, rate limit: %t)",
		m.addr, deps.Catalog != nil, m.cfg.Limiter != nil)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// Addr returns the bound listen address once started.
func (m *APIModule) Addr() string {
	return m.addr
}
