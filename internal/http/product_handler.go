package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

const (
	maxRequestBodyBytes   = 1 << 20
	defaultStockThreshold = 10
)

type productRequest struct {
	Name          string           `json:"name" validate:"notblank"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required,gt=0,lt=10000000000,maxscale=2"`
	Sku           *string          `json:"sku"`
	StockQuantity *int             `json:"stockQuantity" validate:"required,gte=0,lte=2147483647"`
	Active        *bool            `json:"active"`
}

func (req productRequest) toParams() service.CreateProductParams {
	return service.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		Sku:           req.Sku,
		StockQuantity: *req.StockQuantity,
		Active:        req.Active,
	}
}

type productResponse struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	Price         json.Number `json:"price"`
	Sku           *string     `json:"sku"`
	StockQuantity int         `json:"stockQuantity"`
	Active        bool        `json:"active"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func toProductResponse(product model.Product) productResponse {
	return productResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         json.Number(product.Price.String()),
		Sku:           product.Sku,
		StockQuantity: product.StockQuantity,
		Active:        product.Active,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func toProductResponses(products []model.Product) []productResponse {
	items := make([]productResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}
	return items
}

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
	logger     *slog.Logger
}

func newProductHandler(productSvc service.ProductService, validator validator.Validator, logger *slog.Logger) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  validator,
		logger:     logger,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var includeInactive *bool
	if err := runtime.BindQueryParameter("form", true, false, "includeInactive", r.URL.Query(), &includeInactive); err != nil {
		return newRequestError(&apierr.InvalidParamFormatError{ParamName: "includeInactive", Err: err})
	}

	list := h.productSvc.ListActiveProducts
	if includeInactive != nil && *includeInactive {
		list = h.productSvc.ListAllProducts
	}

	products, err := list(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	writeJSON(w, r, h.logger, http.StatusOK, toProductResponses(products))
	return nil
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProductByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product by id: %w", err)
	}

	writeJSON(w, r, h.logger, http.StatusOK, toProductResponse(product))
	return nil
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	req, err := h.decodeProductRequest(w, r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), req.toParams())
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", product.ID))
	writeJSON(w, r, h.logger, http.StatusCreated, toProductResponse(product))
	return nil
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	req, err := h.decodeProductRequest(w, r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:                  id,
		CreateProductParams: req.toParams(),
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(w, r, h.logger, http.StatusOK, toProductResponse(product))
	return nil
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) SearchProducts(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	if !query.Has("name") {
		return newRequestError(&apierr.RequiredParamError{ParamName: "name"})
	}

	var name string
	if err := runtime.BindQueryParameter("form", true, true, "name", query, &name); err != nil {
		return newRequestError(&apierr.InvalidParamFormatError{ParamName: "name", Err: err})
	}

	products, err := h.productSvc.SearchProducts(r.Context(), name)
	if err != nil {
		return fmt.Errorf("product service search products: %w", err)
	}

	writeJSON(w, r, h.logger, http.StatusOK, toProductResponses(products))
	return nil
}

func (h *productHandler) ListLowStockProducts(w http.ResponseWriter, r *http.Request) error {
	var threshold *int
	if err := runtime.BindQueryParameter("form", true, false, "threshold", r.URL.Query(), &threshold); err != nil {
		return newRequestError(&apierr.InvalidParamFormatError{ParamName: "threshold", Err: err})
	}

	limit := defaultStockThreshold
	if threshold != nil {
		limit = *threshold
	}

	products, err := h.productSvc.ListLowStockProducts(r.Context(), limit)
	if err != nil {
		return fmt.Errorf("product service list low stock products: %w", err)
	}

	writeJSON(w, r, h.logger, http.StatusOK, toProductResponses(products))
	return nil
}

func (h *productHandler) decodeProductRequest(w http.ResponseWriter, r *http.Request) (productRequest, error) {
	var req productRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, newRequestError(errors.New("request body is required"))
		}
		return req, newRequestError(fmt.Errorf("decode request body: %w", err))
	}

	if err := h.validator.Validate(req); err != nil {
		return req, newRequestError(apperr.ValidationErr.WrapParent(err))
	}

	return req, nil
}

func productIDParam(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return 0, newRequestError(&apierr.InvalidParamFormatError{ParamName: "id", Err: err})
	}

	if id < 1 {
		return 0, newRequestError(&apierr.InvalidParamFormatError{
			ParamName: "id",
			Err:       fmt.Errorf("must be greater than 0, got %d", id),
		})
	}

	return id, nil
}
