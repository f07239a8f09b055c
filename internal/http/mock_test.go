package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

type mockProductService struct {
	mock.Mock
}

var _ service.ProductService = (*mockProductService)(nil)

func (m *mockProductService) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductService) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]model.Product), args.Error(1)
}

type mockHealthChecker struct {
	mock.Mock
}

func (m *mockHealthChecker) IsHealthy(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
