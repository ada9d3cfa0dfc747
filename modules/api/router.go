package api

import (
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps are the ports and options the router is built from. Catalog and
// Limiter are optional: without a catalog the product routes are not
// mounted, without a limiter the auth routes are not rate limited.
type Deps struct {
	Auth       auth.AuthPort
	Tasks      task.TaskPort
	Activity   activity.ActivityPort
	Catalog    catalog.CatalogPort
	Limiter    ratelimit.Limiter
	Health     HealthFunc
	CORSOrigin string

	// ProxyHeader names the header holding the client IP, e.g.
	// X-Forwarded-For behind a reverse proxy. Empty uses the socket address.
	ProxyHeader string
	AccessLog   bool
}

// NewRouter builds the Fiber app with every route mounted.
func NewRouter(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		ProxyHeader:           deps.ProxyHeader,
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origin}))

	h := &Handlers{
		auth:     deps.Auth,
		tasks:    deps.Tasks,
		activity: deps.Activity,
		catalog:  deps.Catalog,
		health:   deps.Health,
	}

	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Auth)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", limitBy(deps.Limiter, "register"), h.Register)
	authRoutes.Post("/login", limitBy(deps.Limiter, "login"), h.Login)
	authRoutes.Post("/refresh", h.Refresh)

	users := api.Group("/users", requireAuth)
	users.Get("/me", h.GetMe)
	users.Put("/me", h.UpdateMe)
	users.Get("/me/activity", h.MyActivity)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	if deps.Catalog != nil {
		products := api.Group("/products")
		products.Get("/", h.ListProducts)
		products.Get("/recommendations", h.Recommendations)
		products.Get("/slug/:slug", h.ProductBySlug)
		products.Get("/:id", h.ProductByID)

		admin := api.Group("/admin", requireAuth, RequireAdmin())
		admin.Get("/inventory", h.InventoryDashboard)
		admin.Post("/products", h.CreateProduct)
		admin.Put("/products/:id", h.UpdateProduct)
		admin.Delete("/products/:id", h.DeleteProduct)
	}

	return app
}

// limitBy returns the rate limit middleware for scope, or a pass-through
// handler when no limiter is configured.
func limitBy(limiter ratelimit.Limiter, scope string) fiber.Handler {
	if limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return ratelimit.ByIP(limiter, "auth:"+scope)
}
