package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

func TestProductArgs(t *testing.T) {
	t.Run("Should reject stock outside the integer column", func(t *testing.T) {
		_, err := productArgs(model.Product{
			Price:         decimal.NewFromInt(1),
			StockQuantity: 3_000_000_000,
		})
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("Should keep price digits", func(t *testing.T) {
		args, err := productArgs(model.Product{
			Price:         decimal.RequireFromString("9999999999.99"),
			StockQuantity: 2147483647,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(2147483647), args["stock_quantity"])
	})
}

func TestIsInvalidValue(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("save product: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, isInvalidValue(wrap(checkViolationCode)))
	assert.True(t, isInvalidValue(wrap(numericOutOfRangeCode)))
	assert.False(t, isInvalidValue(wrap(uniqueViolationCode)))
	assert.False(t, isSkuUniqueViolation(wrap(checkViolationCode)))
}

func TestSaveProductError(t *testing.T) {
	dup := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: productSkuKey}
	assert.Equal(t, ErrDuplicateSku, saveProductError(dup))

	err := saveProductError(&pgconn.PgError{Code: checkViolationCode})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	err = saveProductError(ErrProductNotFound)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NotErrorIs(t, err, ErrInvalidProduct)
}
