package repository_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

func setupPostgres(t *testing.T) *db.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, slog.New(slog.NewTextHandler(io.Discard, nil))))

	return db.NewClient(pool)
}

func newProduct(name string, sku *string, stock int) model.Product {
	now := time.Now()
	return model.Product{
		Name:          name,
		Description:   ptr.New(name + " description"),
		Price:         decimal.RequireFromString("9.99"),
		Sku:           sku,
		StockQuantity: stock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestProductRepository(t *testing.T) {
	client := setupPostgres(t)
	repo := repository.NewProductRepository(client)
	ctx := context.Background()

	widget, err := repo.SaveProduct(ctx, newProduct("Blue Widget", ptr.New("W-1"), 10))
	require.NoError(t, err)
	gadget, err := repo.SaveProduct(ctx, newProduct("Gadget 100%_off", nil, 2))
	require.NoError(t, err)

	t.Run("Should assign id on insert", func(t *testing.T) {
		assert.NotZero(t, widget.ID)
		assert.NotEqual(t, widget.ID, gadget.ID)
		assert.True(t, decimal.RequireFromString("9.99").Equal(widget.Price))
		assert.Equal(t, "W-1", *widget.Sku)
		assert.Nil(t, gadget.Sku)
	})

	t.Run("Should get product by id", func(t *testing.T) {
		got, err := repo.GetProductByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.Equal(t, widget.Name, got.Name)
		assert.Equal(t, *widget.Description, *got.Description)
		assert.Equal(t, 10, got.StockQuantity)
	})

	t.Run("Should return not found for unknown id", func(t *testing.T) {
		_, err := repo.GetProductByID(ctx, 999_999)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)

		exists, err := repo.ExistsProductByID(ctx, 999_999)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should report sku existence", func(t *testing.T) {
		exists, err := repo.ExistsProductBySku(ctx, "W-1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsProductBySku(ctx, "W-2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should reject duplicate sku", func(t *testing.T) {
		_, err := repo.SaveProduct(ctx, newProduct("Other", ptr.New("W-1"), 1))
		assert.ErrorIs(t, err, repository.ErrDuplicateSku)
	})

	t.Run("Should search case insensitively and escape wildcards", func(t *testing.T) {
		products, err := repo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{Name: "widget"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, widget.ID, products[0].ID)

		products, err = repo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{Name: "100%_"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, gadget.ID, products[0].ID)

		products, err = repo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{Name: "%"})
		require.NoError(t, err)
		assert.Len(t, products, 1)

		products, err = repo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{Name: "nothing"})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should update and filter by active flag", func(t *testing.T) {
		inactive := gadget
		inactive.Active = false
		inactive.UpdatedAt = time.Now().Add(time.Second)

		saved, err := repo.SaveProduct(ctx, inactive)
		require.NoError(t, err)
		assert.False(t, saved.Active)
		assert.True(t, saved.UpdatedAt.After(gadget.UpdatedAt))
		assert.True(t, saved.CreatedAt.Equal(gadget.CreatedAt))

		active, err := repo.ListProducts(ctx, repository.ListProductsParams{Active: ptr.New(true)})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, widget.ID, active[0].ID)

		all, err := repo.ListProducts(ctx, repository.ListProductsParams{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		products, err := repo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{
			Name:   "gadget",
			Active: ptr.New(true),
		})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should list low stock active products", func(t *testing.T) {
		products, err := repo.ListLowStockProducts(ctx, 11)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, widget.ID, products[0].ID)

		products, err = repo.ListLowStockProducts(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should store price and stock boundaries exactly", func(t *testing.T) {
		for _, price := range []string{"0.01", "9999999999.99"} {
			product := newProduct("Boundary "+price, nil, 2147483647)
			product.Price = decimal.RequireFromString(price)

			saved, err := repo.SaveProduct(ctx, product)
			require.NoError(t, err)

			got, err := repo.GetProductByID(ctx, saved.ID)
			require.NoError(t, err)
			assert.True(t, product.Price.Equal(got.Price), price)
			assert.Equal(t, 2147483647, got.StockQuantity)

			require.NoError(t, repo.DeleteProductByID(ctx, saved.ID))
		}
	})

	t.Run("Should reject values outside the columns", func(t *testing.T) {
		for _, price := range []string{"0.001", "1e10"} {
			product := newProduct("Out of range "+price, nil, 1)
			product.Price = decimal.RequireFromString(price)

			_, err := repo.SaveProduct(ctx, product)
			assert.ErrorIs(t, err, repository.ErrInvalidProduct, price)
		}
	})

	t.Run("Should lock product inside a transaction", func(t *testing.T) {
		err := client.WithTx(ctx, func(tx db.DB) error {
			locked, err := repo.WithDB(tx).LockProductByID(ctx, widget.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, widget.ID, locked.ID)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("Should roll back on error", func(t *testing.T) {
		err := client.WithTx(ctx, func(tx db.DB) error {
			if _, err := repo.WithDB(tx).SaveProduct(ctx, newProduct("Rolled back", ptr.New("RB-1"), 1)); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		exists, err := repo.ExistsProductBySku(ctx, "RB-1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should delete product physically", func(t *testing.T) {
		require.NoError(t, repo.DeleteProductByID(ctx, gadget.ID))

		exists, err := repo.ExistsProductByID(ctx, gadget.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, repo.DeleteProductByID(ctx, gadget.ID), repository.ErrProductNotFound)
	})
}
