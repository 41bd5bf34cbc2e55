package domain

import "github.com/shopspring/decimal"

// Product is what the catalog tells us about a product at lookup time.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      string
	Available     bool
	StockQuantity int
}
