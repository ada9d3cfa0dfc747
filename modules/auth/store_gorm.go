package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormUserStore handles user persistence using GORM.
type GormUserStore struct {
	db *gorm.DB
}

var _ UserStore = (*GormUserStore)(nil)

// NewGormUserStore wraps an open GORM handle. Call Migrate before first use.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// OpenSQLiteUserStore opens the SQLite database at path and migrates the
// users table.
func OpenSQLiteUserStore(path string) (*GormUserStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := NewGormUserStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the users table.
func (s *GormUserStore) Migrate() error {
	if err := s.db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Create inserts u, assigning an id when it has none.
func (s *GormUserStore) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// FindByID finds a user by ID.
func (s *GormUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

// FindByEmail finds a user by email.
func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormUserStore) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile writes the supplied name and bio and returns the stored user.
// No other column is touched besides updated_at.
func (s *GormUserStore) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	changes := profileChanges(update)
	if len(changes) == 0 {
		return s.FindByID(ctx, id)
	}
	changes["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.FindByID(ctx, id)
}

// Ping checks the database connection.
func (s *GormUserStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *GormUserStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueViolation catches drivers that do not translate constraint errors.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
