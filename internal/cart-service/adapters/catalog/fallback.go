package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

const (
	fallbackName        = "Product temporarily unavailable"
	fallbackDescription = "Please try again later"
)

// FallbackProduct is served in place of a product the catalog could not be
// asked about. It is never purchasable.
func FallbackProduct(productID string) domain.Product {
	return domain.Product{
		ID:            productID,
		Name:          fallbackName,
		Description:   fallbackDescription,
		Price:         decimal.Zero,
		Available:     false,
		StockQuantity: 0,
	}
}
