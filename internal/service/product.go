package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

type CreateProductParams struct {
	Name          string `validate:"notblank"`
	Description   *string
	Price         decimal.Decimal `validate:"gt=0,lt=10000000000,maxscale=2"`
	Sku           *string
	StockQuantity int `validate:"gte=0,lte=2147483647"`
	// Active defaults to true when nil.
	Active *bool
}

type UpdateProductParams struct {
	ID int64
	CreateProductParams
}

type ProductService interface {
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SearchProducts(ctx context.Context, name string) ([]model.Product, error)
	ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
}

type productService struct {
	db          db.DB
	productRepo repository.ProductRepository
	validator   validator.Validator
	logger      *slog.Logger
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	validator validator.Validator,
	logger *slog.Logger,
) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		validator:   validator,
		logger:      logger.With(slog.String("service", "product")),
	}
}

func (s *productService) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Active: ptr.New(true),
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	s.logger.DebugContext(ctx, "listed active products", slog.Int("count", len(products)))

	return products, nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

// GetProductByID returns the product whatever its active flag, so soft deleted
// products stay readable by id.
func (s *productService) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFound(id)
		}
		return model.Product{}, fmt.Errorf("product repository get product by id: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate create product params: %w", apperr.ValidationErr.WrapParent(err))
	}

	now := time.Now()
	product := model.Product{
		Name:          strings.TrimSpace(params.Name),
		Description:   params.Description,
		Price:         params.Price,
		Sku:           normalizeSku(params.Sku),
		StockQuantity: params.StockQuantity,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if params.Active != nil {
		product.Active = *params.Active
	}

	var created model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		if err := ensureSkuAvailable(ctx, productRepo, product.Sku); err != nil {
			return err
		}

		var err error
		created, err = productRepo.SaveProduct(ctx, product)
		if err != nil {
			return saveProductError(err, product)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate update product params: %w", apperr.ValidationErr.WrapParent(err))
	}

	var updated model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		product, err := productRepo.LockProductByID(ctx, params.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return apperr.ProductNotFound(params.ID)
			}
			return fmt.Errorf("product repository lock product by id: %w", err)
		}

		sku := normalizeSku(params.Sku)
		if sku != nil && (product.Sku == nil || *product.Sku != *sku) {
			if err := ensureSkuAvailable(ctx, productRepo, sku); err != nil {
				return err
			}
		}

		product.Name = strings.TrimSpace(params.Name)
		product.Description = params.Description
		product.Price = params.Price
		product.Sku = sku
		product.StockQuantity = params.StockQuantity
		if params.Active != nil {
			product.Active = *params.Active
		}
		product.UpdatedAt = time.Now()

		updated, err = productRepo.SaveProduct(ctx, product)
		if err != nil {
			return saveProductError(err, product)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", updated.ID))

	return updated, nil
}

// DeleteProduct soft deletes the product by clearing its active flag. Deleting
// an already inactive product succeeds.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		product, err := productRepo.LockProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return apperr.ProductNotFound(id)
			}
			return fmt.Errorf("product repository lock product by id: %w", err)
		}

		product.Active = false
		product.UpdatedAt = time.Now()

		if _, err := productRepo.SaveProduct(ctx, product); err != nil {
			return saveProductError(err, product)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "product soft deleted", slog.Int64("product_id", id))

	return nil
}

func (s *productService) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	products, err := s.productRepo.SearchProductsByName(ctx, repository.SearchProductsByNameParams{
		Name:   name,
		Active: ptr.New(true),
	})
	if err != nil {
		return nil, fmt.Errorf("product repository search products by name: %w", err)
	}

	s.logger.DebugContext(ctx, "searched products",
		slog.String("name", name),
		slog.Int("count", len(products)),
	)

	return products, nil
}

func (s *productService) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	if threshold < 0 {
		return nil, apperr.ValidationErr.WithMsgf("threshold must be greater than or equal to 0, got %d", threshold)
	}

	products, err := s.productRepo.ListLowStockProducts(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("product repository list low stock products: %w", err)
	}

	return products, nil
}

func ensureSkuAvailable(ctx context.Context, productRepo repository.ProductRepository, sku *string) error {
	if sku == nil {
		return nil
	}

	exists, err := productRepo.ExistsProductBySku(ctx, *sku)
	if err != nil {
		return fmt.Errorf("product repository exists product by sku: %w", err)
	}
	if exists {
		return apperr.ProductSkuConflict(*sku)
	}

	return nil
}

// saveProductError translates storage level rejections that slipped past the
// checks above, such as a concurrent insert of the same sku.
func saveProductError(err error, product model.Product) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSku) && product.Sku != nil:
		return apperr.ProductSkuConflict(*product.Sku)
	case errors.Is(err, repository.ErrProductNotFound):
		return apperr.ProductNotFound(product.ID)
	case errors.Is(err, repository.ErrInvalidProduct):
		return apperr.ValidationErr.WrapParent(err)
	default:
		return fmt.Errorf("product repository save product: %w", err)
	}
}

func normalizeSku(sku *string) *string {
	if sku == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
