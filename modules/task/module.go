package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Storage drivers understood by StoreConfig.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// StoreConfig selects and configures the task store.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// TaskModule exposes the task controller as request-reply services and
// publishes task events.
type TaskModule struct {
	cfg        StoreConfig
	store      Store
	controller *Controller
	eventBus   mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)

// NewModule creates a TaskModule that opens its store on Start.
func NewModule(cfg StoreConfig) *TaskModule {
	return &TaskModule{cfg: cfg}
}

// NewModuleWithStore creates a TaskModule around an already open store.
func NewModuleWithStore(store Store) *TaskModule {
	return &TaskModule{
		store:      store,
		controller: NewController(store),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the framework event bus.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	log.Printf("[task] Registered services: list-tasks, create-task, update-task, delete-task")
	return nil
}

// Start opens the configured store.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.store == nil {
		store, err := openStore(ctx, m.cfg)
		if err != nil {
			return err
		}
		m.store = store
		m.controller = NewController(store)
	}

	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	log.Printf("[task] Module started (driver: %s)", m.driver())
	return nil
}

// Stop closes the store.
func (m *TaskModule) Stop(ctx context.Context) error {
	if m.store != nil {
		if err := m.store.Close(ctx); err != nil {
			log.Printf("[task] Error closing store: %v", err)
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health reports whether the store is reachable.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.driver(),
		},
	}
}

func (m *TaskModule) driver() string {
	if m.cfg.Driver == "" {
		return DriverSQLite
	}
	return m.cfg.Driver
}

func openStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverMongo:
		return ConnectMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case DriverSQLite, "":
		path := cfg.SQLitePath
		if path == "" {
			path = "tasks.db"
		}
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown task store driver %q", cfg.Driver)
	}
}
