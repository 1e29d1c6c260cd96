package domain

import "github.com/shopspring/decimal"

// Product is an atomic sellable catalog item. The catalog owns it; this
// engine only reads price and stock.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"quantity"`
}
