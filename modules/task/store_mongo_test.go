package task

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// setupMongoStore connects to TEST_MONGO_URI and returns a store over a
// fresh collection. The test is skipped when MongoDB is not reachable.
func setupMongoStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skipf("MongoDB ping failed: %v", err)
	}

	coll := client.Database("task_manager_test").Collection("tasks_" + primitive.NewObjectID().Hex())
	store := NewMongoStore(client, coll)
	store.now = tickingClock()
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return store
}

func TestMongoStore_Contract(t *testing.T) {
	runStoreContract(t, storeHarness{
		newStore:  func(t *testing.T) Store { return setupMongoStore(t) },
		missingID: func() string { return primitive.NewObjectID().Hex() },
		badID:     "not-an-object-id",
	})
}
