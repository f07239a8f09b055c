package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predefined error regardless of message", func(t *testing.T) {
		err := fmt.Errorf("service get: %w", notFound.WithMsgf("product not found with id: %d", 42))

		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, zerror.StatusNotFound, zerror.StatusOf(err))

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, "product not found with id: 42", zErr.Msg())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		conflict := zerror.NewConflict("PRODUCT_SKU_CONFLICT", "duplicate sku")
		assert.NotErrorIs(t, conflict, notFound)
	})

	t.Run("Should unwrap parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := zerror.NewValidationFailed("VALIDATION_FAILED", "validation error").WrapParent(parent)

		assert.ErrorIs(t, err, parent)
		assert.Contains(t, err.Error(), "Parent=(boom)")
	})

	t.Run("Should report unknown status for plain errors", func(t *testing.T) {
		assert.Equal(t, zerror.StatusUnknown, zerror.StatusOf(errors.New("plain")))
		assert.Equal(t, "UNKNOWN", zerror.StatusOf(nil).String())
	})
}
