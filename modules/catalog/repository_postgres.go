package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/product"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
	category    TEXT NOT NULL,
	inventory   INTEGER NOT NULL DEFAULT 0 CHECK (inventory >= 0),
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);
CREATE INDEX IF NOT EXISTS products_inventory_idx ON products (inventory);
`

const productColumns = `id::text, name, slug, description, price, category, inventory, image_url, created_at, updated_at`

// PostgresRepository implements Repository on a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository over pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ConnectPostgres opens a pool on url, pings it and applies the schema.
func ConnectPostgres(ctx context.Context, url string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// Migrate creates the products table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// List returns products matching f, newest first.
func (r *PostgresRepository) List(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	f = f.Normalize()

	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	return r.query(ctx, query, args...)
}

// Categories returns the distinct categories in alphabetical order.
func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, err
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Get returns the product with id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.queryOne(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", uid)
}

// GetBySlug returns the product with slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.queryOne(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug)
}

// TopByInventory returns the limit products with the most stock.
func (r *PostgresRepository) TopByInventory(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY inventory DESC, created_at DESC LIMIT $1",
		limit,
	)
}

// ListByInventory returns every product, least stock first.
func (r *PostgresRepository) ListByInventory(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, "SELECT "+productColumns+" FROM products ORDER BY inventory ASC, name ASC")
}

// Create inserts p, assigning its id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Product) error {
	now := r.now()
	id := uuid.New()
	p.ID = id.String()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, slug, description, price, category, inventory, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, p.Name, p.Slug, p.Description, p.Price, p.Category, p.Inventory, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Update writes every mutable column of p.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Product) error {
	uid, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrInvalidID
	}
	p.UpdatedAt = r.now()

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, category = $6,
		    inventory = $7, image_url = $8, updated_at = $9
		WHERE id = $1`,
		uid, p.Name, p.Slug, p.Description, p.Price, p.Category, p.Inventory, p.ImageURL, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product with id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, sql string, args ...any) (*domain.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.Category, &p.Inventory, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// isUniqueViolation checks if err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// escapeLike escapes ILIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
