package mappers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

type CartResponse struct {
	CartID     string             `json:"cart_id"`
	UserID     string             `json:"user_id,omitempty"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

type CartItemResponse struct {
	ItemID       string          `json:"item_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Available    bool            `json:"available"`
}

func CartToResponse(c *domain.Cart) *CartResponse {
	if c == nil {
		return nil
	}

	items := make([]CartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = ItemToResponse(it)
	}

	return &CartResponse{
		CartID:     c.ID,
		UserID:     c.UserID,
		Items:      items,
		TotalItems: c.TotalItems,
		Subtotal:   c.Subtotal,
		Total:      c.Total,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		ExpiresAt:  c.ExpiresAt,
	}
}

func ItemToResponse(it domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ItemID:       it.ItemID,
		ProductID:    it.ProductID,
		ProductName:  it.ProductName,
		ProductImage: it.ProductImage,
		Quantity:     it.Quantity,
		UnitPrice:    it.UnitPrice,
		LineTotal:    it.LineTotal(),
		Available:    it.Available,
	}
}
