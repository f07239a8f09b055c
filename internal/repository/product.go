package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSku    = errors.New("duplicate product sku")
	// ErrInvalidProduct is returned when the store rejects a field value, such
	// as a price or stock quantity outside the column range.
	ErrInvalidProduct  = errors.New("invalid product value")
)

const (
	uniqueViolationCode   = "23505"
	checkViolationCode    = "23514"
	numericOutOfRangeCode = "22003"
	productSkuKey         = "products_sku_key"
)

type ListProductsParams struct {
	// Active filters by the active flag. Nil lists every product.
	Active *bool
}

type SearchProductsByNameParams struct {
	// Name is matched as a case-insensitive substring of the product name.
	Name   string
	Active *bool
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, error)
	// LockProductByID is GetProductByID holding a row lock until the surrounding
	// transaction ends.
	LockProductByID(ctx context.Context, id int64) (model.Product, error)
	SearchProductsByName(ctx context.Context, params SearchProductsByNameParams) ([]model.Product, error)
	ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
	ExistsProductBySku(ctx context.Context, sku string) (bool, error)
	ExistsProductByID(ctx context.Context, id int64) (bool, error)
	// SaveProduct inserts the product when its ID is zero and updates it
	// otherwise. The stored row is returned, including generated values.
	SaveProduct(ctx context.Context, product model.Product) (model.Product, error)
	DeleteProductByID(ctx context.Context, id int64) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

const productColumns = `id, name, description, price, sku, stock_quantity, active, created_at, updated_at`

type productRow struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Description   *string        `db:"description"`
	Price         pgtype.Numeric `db:"price"`
	Sku           *string        `db:"sku"`
	StockQuantity int32          `db:"stock_quantity"`
	Active        bool           `db:"active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE (@active::boolean IS NULL OR active = @active)
		ORDER BY id;
	`, pgx.NamedArgs{
		"active": params.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	return r.getProductByID(ctx, id, "")
}

func (r productRepository) LockProductByID(ctx context.Context, id int64) (model.Product, error) {
	return r.getProductByID(ctx, id, "FOR UPDATE")
}

func (r productRepository) getProductByID(ctx context.Context, id int64, lockClause string) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = @id
		`+lockClause+`;
	`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	product, err := collectProduct(rows)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) SearchProductsByName(ctx context.Context, params SearchProductsByNameParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE '%' || @name::text || '%' ESCAPE '\'
			AND (@active::boolean IS NULL OR active = @active)
		ORDER BY id;
	`, pgx.NamedArgs{
		"name":   escapeLikePattern(params.Name),
		"active": params.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("search products by name: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE stock_quantity < @threshold AND active
		ORDER BY stock_quantity, id;
	`, pgx.NamedArgs{
		"threshold": threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) ExistsProductBySku(ctx context.Context, sku string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE sku = @sku);
	`, pgx.NamedArgs{
		"sku": sku,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists product by sku: %w", err)
	}

	return exists, nil
}

func (r productRepository) ExistsProductByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE id = @id);
	`, pgx.NamedArgs{
		"id": id,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists product by id: %w", err)
	}

	return exists, nil
}

func (r productRepository) SaveProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args, err := productArgs(product)
	if err != nil {
		return model.Product{}, err
	}

	query := `
		INSERT INTO products (name, description, price, sku, stock_quantity, active, created_at, updated_at)
		VALUES (@name, @description, @price, @sku, @stock_quantity, @active, @created_at, @updated_at)
		RETURNING ` + productColumns + `;
	`
	if product.ID != 0 {
		query = `
			UPDATE products
			SET
				name           = @name,
				description    = @description,
				price          = @price,
				sku            = @sku,
				stock_quantity = @stock_quantity,
				active         = @active,
				updated_at     = @updated_at
			WHERE id = @id
			RETURNING ` + productColumns + `;
		`
	}

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return model.Product{}, saveProductError(err)
	}

	saved, err := collectProduct(rows)
	if err != nil {
		return model.Product{}, saveProductError(err)
	}

	return saved, nil
}

// saveProductError maps constraint rejections raised by insert or update.
func saveProductError(err error) error {
	switch {
	case isSkuUniqueViolation(err):
		return ErrDuplicateSku
	case isInvalidValue(err):
		return fmt.Errorf("save product: %w: %w", ErrInvalidProduct, err)
	default:
		return fmt.Errorf("save product: %w", err)
	}
}

func (r productRepository) DeleteProductByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM products WHERE id = @id;
	`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("delete product by id: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func productArgs(product model.Product) (pgx.NamedArgs, error) {
	var price pgtype.Numeric
	if err := price.Scan(product.Price.String()); err != nil {
		return nil, fmt.Errorf("scan price: %w", err)
	}

	if product.StockQuantity > math.MaxInt32 || product.StockQuantity < math.MinInt32 {
		return nil, fmt.Errorf("%w: stock quantity out of range: %d", ErrInvalidProduct, product.StockQuantity)
	}

	return pgx.NamedArgs{
		"id":             product.ID,
		"name":           product.Name,
		"description":    product.Description,
		"price":          price,
		"sku":            product.Sku,
		"stock_quantity": int32(product.StockQuantity),
		"active":         product.Active,
		"created_at":     product.CreatedAt,
		"updated_at":     product.UpdatedAt,
	}, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect product rows: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := productRowToModelProduct(row)
		if err != nil {
			return nil, fmt.Errorf("convert product row to model product: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func collectProduct(rows pgx.Rows) (model.Product, error) {
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, err
	}

	return productRowToModelProduct(row)
}

func productRowToModelProduct(row productRow) (model.Product, error) {
	price, err := numericToDecimal(row.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to decimal: %w", err)
	}

	return model.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         price,
		Sku:           row.Sku,
		StockQuantity: int(row.StockQuantity),
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Decimal{}, errors.New("price is null")
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("price is not a finite number")
	}

	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func isSkuUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == productSkuKey
}

func isInvalidValue(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		(pgErr.Code == checkViolationCode || pgErr.Code == numericOutOfRangeCode)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}
