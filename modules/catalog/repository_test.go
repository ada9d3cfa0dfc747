package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	domain "github.com/example/task-manager/domain/product"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPostgresRepository connects to TEST_DATABASE_URL and empties the
// products table. The test is skipped when PostgreSQL is not reachable.
func setupPostgresRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := ConnectPostgres(ctx, url)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	_, err = repo.pool.Exec(ctx, "TRUNCATE products")
	require.NoError(t, err)

	t.Cleanup(repo.Close)
	return repo
}

func TestPostgresRepository(t *testing.T) {
	repo := setupPostgresRepository(t)
	ctx := context.Background()

	products := []*domain.Product{
		{Name: "Desk Lamp", Slug: "desk-lamp", Description: "50% brighter", Price: 20, Category: "lighting", Inventory: 40},
		{Name: "Floor Lamp", Slug: "floor-lamp", Price: 80, Category: "lighting", Inventory: 0},
		{Name: "Ergo Chair", Slug: "ergo-chair", Price: 250, Category: "furniture", Inventory: 5},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
		require.NotEmpty(t, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("list newest first with filters", func(t *testing.T) {
		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ergo Chair", "Floor Lamp", "Desk Lamp"}, names(all))

		lighting, err := repo.List(ctx, domain.Filter{Category: "lighting", Search: "LAMP"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Floor Lamp", "Desk Lamp"}, names(lighting))

		literal, err := repo.List(ctx, domain.Filter{Search: "0%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Desk Lamp"}, names(literal))
	})

	t.Run("categories", func(t *testing.T) {
		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"furniture", "lighting"}, categories)
	})

	t.Run("get by id and slug", func(t *testing.T) {
		got, err := repo.Get(ctx, products[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "desk-lamp", got.Slug)

		bySlug, err := repo.GetBySlug(ctx, "ergo-chair")
		require.NoError(t, err)
		assert.Equal(t, products[2].ID, bySlug.ID)

		_, err = repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrInvalidID)
		_, err = repo.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("inventory ordering", func(t *testing.T) {
		top, err := repo.TopByInventory(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Desk Lamp", "Ergo Chair"}, names(top))

		low, err := repo.ListByInventory(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Floor Lamp", "Ergo Chair", "Desk Lamp"}, names(low))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Product{Name: "Other", Slug: "desk-lamp", Category: "lighting"})
		assert.ErrorIs(t, err, ErrDuplicateSlug)

		p, err := repo.Get(ctx, products[1].ID)
		require.NoError(t, err)
		p.Slug = "ergo-chair"
		assert.ErrorIs(t, repo.Update(ctx, p), ErrDuplicateSlug)
	})

	t.Run("update and delete", func(t *testing.T) {
		p, err := repo.Get(ctx, products[1].ID)
		require.NoError(t, err)
		p.Inventory = 12
		require.NoError(t, repo.Update(ctx, p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, got.Inventory)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

		require.NoError(t, repo.Delete(ctx, p.ID))
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, p), ErrNotFound)
	})

	assert.NoError(t, repo.Ping(ctx))
}
