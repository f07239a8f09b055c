package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. A product with Active set to false is soft
// deleted: it is kept in storage and still readable by id, but excluded from
// listings and searches.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Sku           *string         `json:"sku"`
	StockQuantity int             `json:"stockQuantity"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
