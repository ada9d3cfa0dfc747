package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestStore creates a GormStore over a private in-memory database.
func setupTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqliteDialector(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Each pooled connection to :memory: would get its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store := NewGormStore(db)
	store.now = tickingClock()
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return store
}

func TestGormStore_Contract(t *testing.T) {
	runStoreContract(t, storeHarness{
		newStore:  func(t *testing.T) Store { return setupTestStore(t) },
		missingID: uuid.NewString,
		badID:     "not-a-uuid",
	})
}

func TestGormStore_SaveAfterDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	c := NewController(store)
	created, err := c.Create(ctx, "alice", CreateInput{Title: "racing"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.DeleteOwned(ctx, "alice", created.ID); err != nil {
		t.Fatalf("DeleteOwned() error = %v", err)
	}

	created.Title = "resurrected"
	if err := store.Save(ctx, created); err != ErrNotFound {
		t.Errorf("Save() after delete error = %v, want %v", err, ErrNotFound)
	}

	tasks, err := store.Find(ctx, BuildQuery("alice", ListFilter{}))
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Find() returned %d tasks, want 0", len(tasks))
	}
}

func TestGormStore_Ping(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
