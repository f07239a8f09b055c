package apperr

import "github.com/tuanvumaihuynh/product-catalog/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	ProductSkuConflictCode = "PRODUCT_SKU_CONFLICT"
	DatabaseUnhealthyCode  = "DATABASE_UNHEALTHY"
)

var (
	ValidationErr         = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr    = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductSkuConflictErr = zerror.NewConflict(ProductSkuConflictCode, "product sku already exists")
	DatabaseUnhealthyErr  = zerror.NewServiceUnavailable(DatabaseUnhealthyCode, "database is unavailable")
)

// ProductNotFound returns ProductNotFoundErr naming the requested id.
func ProductNotFound(id int64) error {
	return ProductNotFoundErr.WithMsgf("product not found with id: %d", id)
}

// ProductSkuConflict returns ProductSkuConflictErr naming the duplicate sku.
func ProductSkuConflict(sku string) error {
	return ProductSkuConflictErr.WithMsgf("product with sku %q already exists", sku)
}
