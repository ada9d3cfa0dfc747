package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/api"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/cache"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/spf13/pflag"
)

// healthChecker is a module that can report its health.
type healthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

func main() {
	var configPath, addr string
	flagSet := pflag.NewFlagSet("task-manager", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvConfigPath+")")
	flagSet.StringVar(&addr, "addr", "", "HTTP listen address, overrides the config file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfigPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}

	log.Println("=== Task Manager ===")
	log.Printf("Storage: %s", cfg.Storage.Driver)
	log.Printf("Catalog: %t", cfg.Catalog.Enabled())
	log.Printf("Redis: %t", cfg.Redis.Enabled())

	store := auth.StoreConfig{
		Driver:        cfg.Storage.Driver,
		SQLitePath:    cfg.Auth.DBPath,
		MongoURI:      cfg.Storage.MongoURI,
		MongoDatabase: cfg.Storage.MongoDatabase,
	}
	authModule := auth.NewModule(auth.Config{
		JWT: auth.JWTConfig{
			SecretKey:            cfg.Auth.JWTSecret,
			AccessTokenDuration:  cfg.Auth.AccessTokenTTL,
			RefreshTokenDuration: cfg.Auth.RefreshTokenTTL,
			Issuer:               cfg.Auth.Issuer,
		},
		Store:       store,
		AdminEmails: cfg.Auth.AdminEmails,
		BcryptCost:  cfg.Auth.BcryptCost,
	})
	taskModule := task.NewModule(task.StoreConfig{
		Driver:        cfg.Storage.Driver,
		SQLitePath:    cfg.Storage.TaskDBPath,
		MongoURI:      cfg.Storage.MongoURI,
		MongoDatabase: cfg.Storage.MongoDatabase,
	})
	activityModule := activity.NewModule(activity.DefaultCapacity)

	modules := []healthChecker{authModule, taskModule, activityModule}

	var cacheModule *cache.CacheModule
	var limiter ratelimit.Limiter
	if cfg.Redis.Enabled() {
		redisCfg := cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CacheTTL,
		}
		client := cache.NewClient(redisCfg)
		cacheModule = cache.NewModule(redisCfg, client, cfg.Redis.CachePrefix)
		limiter = ratelimit.NewSlidingWindow(client, ratelimit.Config{
			Requests: cfg.RateLimit.AuthRequests,
			Window:   cfg.RateLimit.Window,
		}, config.RateLimitKeyPrefix)
		modules = append(modules, cacheModule)
	}

	var catalogModule *catalog.CatalogModule
	if cfg.Catalog.Enabled() {
		var productCache catalog.Cache
		if cacheModule != nil {
			productCache = cacheModule.Cache()
		}
		catalogModule = catalog.NewModule(catalog.Config{
			DatabaseURL: cfg.Catalog.DatabaseURL,
			Options: catalog.Options{
				LowStockThreshold:   cfg.Catalog.LowStockThreshold,
				RecommendationLimit: cfg.Catalog.RecommendationLimit,
			},
		}, productCache)
		modules = append(modules, catalogModule)
	}

	apiModule := api.NewModule(api.Config{
		Addr:           cfg.HTTP.Addr,
		CORSOrigin:     cfg.HTTP.CORSOrigin,
		ProxyHeader:    cfg.HTTP.ProxyHeader,
		CatalogEnabled: catalogModule != nil,
		Limiter:        limiter,
		Health: func(ctx context.Context) map[string]mono.HealthStatus {
			statuses := make(map[string]mono.HealthStatus, len(modules))
			for _, m := range modules {
				statuses[m.Name()] = m.Health(ctx)
			}
			return statuses
		},
	})
	modules = append(modules, apiModule)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules in dependency order
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(activityModule)
	if catalogModule != nil {
		app.Register(catalogModule)
	}
	app.Register(apiModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	printBanner(apiModule.Addr(), catalogModule != nil)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printBanner(addr string, catalogEnabled bool) {
	log.Println("=== Application Started ===")
	log.Printf("API available at http://%s", addr)
	log.Println("Endpoints:")
	log.Println("  GET    /health                      - Module health")
	log.Println("  POST   /api/auth/register           - Register")
	log.Println("  POST   /api/auth/login              - Login")
	log.Println("  POST   /api/auth/refresh            - Refresh tokens")
	log.Println("  GET    /api/users/me                - Profile (auth)")
	log.Println("  PUT    /api/users/me                - Update profile (auth)")
	log.Println("  GET    /api/users/me/activity       - Recent task activity (auth)")
	log.Println("  GET    /api/tasks                   - List tasks (auth)")
	log.Println("  POST   /api/tasks                   - Create task (auth)")
	log.Println("  PUT    /api/tasks/:id               - Update task (auth)")
	log.Println("  DELETE /api/tasks/:id               - Delete task (auth)")
	if catalogEnabled {
		log.Println("  GET    /api/products                - List products")
		log.Println("  GET    /api/products/recommendations - Best stocked products")
		log.Println("  GET    /api/products/slug/:slug     - Product by slug")
		log.Println("  GET    /api/products/:id            - Product by id")
		log.Println("  GET    /api/admin/inventory         - Inventory dashboard (admin)")
		log.Println("  POST   /api/admin/products          - Create product (admin)")
		log.Println("  PUT    /api/admin/products/:id      - Update product (admin)")
		log.Println("  DELETE /api/admin/products/:id      - Delete product (admin)")
	}
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}
