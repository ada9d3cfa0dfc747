package task

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore persists tasks in a MongoDB collection. Ids are ObjectID hex
// strings.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

var _ Store = (*MongoStore)(nil)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewMongoStore uses coll for task documents. The client is disconnected
// on Close.
func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll, now: time.Now}
}

// ConnectMongoStore dials uri and prepares the "tasks" collection of database.
func ConnectMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := NewMongoStore(client, client.Database(database).Collection("tasks"))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the owner listing index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	return nil
}

// Find returns the tasks matching q, newest first.
func (s *MongoStore) Find(ctx context.Context, q domain.Query) ([]domain.Task, error) {
	filter := bson.M{"owner_id": q.OwnerID}
	if q.Status != nil {
		filter["status"] = string(*q.Status)
	}
	if q.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toDomain())
	}
	return tasks, nil
}

// Insert assigns an id and timestamps to t and stores it.
func (s *MongoStore) Insert(ctx context.Context, t *domain.Task) error {
	// BSON dates hold milliseconds.
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return &StorageError{Op: "insert", Err: err}
	}

	t.ID = doc.ID.Hex()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// FindOwned loads the task with taskID if it belongs to ownerID.
func (s *MongoStore) FindOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrInvalidIdentifier
	}

	var doc taskDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "find", Err: err}
	}

	t := doc.toDomain()
	return &t, nil
}

// Save writes the mutable fields of t. The document must still belong to
// t.OwnerID, otherwise ErrNotFound is returned.
func (s *MongoStore) Save(ctx context.Context, t *domain.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return ErrInvalidIdentifier
	}
	t.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "owner_id": t.OwnerID},
		bson.M{"$set": bson.M{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"updated_at":  t.UpdatedAt,
		}},
	)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned removes the task with taskID if it belongs to ownerID.
func (s *MongoStore) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrInvalidIdentifier
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "owner_id": ownerID})
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the connection to the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
