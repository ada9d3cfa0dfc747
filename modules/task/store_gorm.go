package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore persists tasks in a SQL database through GORM. Ids are UUIDs.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an open GORM handle. The handle must come from
// sqliteDialector, which provides unicode_lower. Call Migrate before first use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// OpenSQLiteStore opens (or creates) the SQLite database at path and
// migrates the task schema.
func OpenSQLiteStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqliteDialector(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the tasks table.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Find returns the tasks matching q, newest first.
func (s *GormStore) Find(ctx context.Context, q domain.Query) ([]domain.Task, error) {
	tx := s.db.WithContext(ctx).Where("owner_id = ?", q.OwnerID)
	if q.Status != nil {
		tx = tx.Where("status = ?", string(*q.Status))
	}
	if q.Search != "" {
		tx = tx.Where(`unicode_lower(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.Search))+"%")
	}

	var tasks []domain.Task
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}
	return tasks, nil
}

// Insert assigns an id and timestamps to t and stores it.
func (s *GormStore) Insert(ctx context.Context, t *domain.Task) error {
	now := s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}

// FindOwned loads the task with taskID if it belongs to ownerID.
func (s *GormStore) FindOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, ErrInvalidIdentifier
	}

	var t domain.Task
	err := s.db.WithContext(ctx).First(&t, "id = ? AND owner_id = ?", taskID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "find", Err: err}
	}
	return &t, nil
}

// Save writes the mutable fields of t. The row must still belong to
// t.OwnerID, otherwise ErrNotFound is returned.
func (s *GormStore) Save(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = s.now().UTC()

	result := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"updated_at":  t.UpdatedAt,
		})
	if result.Error != nil {
		return &StorageError{Op: "save", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned removes the task with taskID if it belongs to ownerID.
func (s *GormStore) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return ErrInvalidIdentifier
	}

	result := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&domain.Task{})
	if result.Error != nil {
		return &StorageError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *GormStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
