package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

// cartRecord is the stored shape of a cart. Derived totals are persisted
// as-is; they are recomputed by the aggregate, not by the store.
type cartRecord struct {
	ID         string          `json:"cart_id"`
	UserID     string          `json:"user_id,omitempty"`
	Items      []itemRecord    `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	Version    int64           `json:"version"`
}

type itemRecord struct {
	ItemID       string          `json:"item_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Available    bool            `json:"available"`
}

func encodeCart(c *domain.Cart) (string, error) {
	rec := cartRecord{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      make([]itemRecord, len(c.Items)),
		TotalItems: c.TotalItems,
		Subtotal:   c.Subtotal,
		Total:      c.Total,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		ExpiresAt:  c.ExpiresAt,
		Version:    c.Version,
	}
	for i, it := range c.Items {
		rec.Items[i] = itemRecord{
			ItemID:       it.ItemID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			Available:    it.Available,
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	return string(b), nil
}

func decodeCart(raw string) (*domain.Cart, error) {
	var rec cartRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	c := &domain.Cart{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Items:      make([]domain.CartItem, len(rec.Items)),
		TotalItems: rec.TotalItems,
		Subtotal:   rec.Subtotal,
		Total:      rec.Total,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		ExpiresAt:  rec.ExpiresAt,
		Version:    rec.Version,
	}
	for i, it := range rec.Items {
		c.Items[i] = domain.CartItem{
			ItemID:       it.ItemID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			Available:    it.Available,
		}
	}
	return c, nil
}
