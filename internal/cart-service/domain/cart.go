package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one product line inside a cart. Name, image and price are a
// snapshot of the catalog taken when the line was first added.
type CartItem struct {
	ItemID       string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	Available    bool
}

// NewCartItem snapshots a catalog product into a fresh line.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ItemID:       "ITEM-" + uuid.NewString(),
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		UnitPrice:    p.Price,
		Quantity:     quantity,
		Available:    true,
	}
}

// LineTotal is always computed, never stored.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the aggregate root. TotalItems, Subtotal and Total are cached
// derived values; every mutator below recomputes them before returning.
type Cart struct {
	ID     string
	UserID string // empty for anonymous carts

	Items      []CartItem
	TotalItems int
	Subtotal   decimal.Decimal
	Total      decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time

	// Version is bumped by the store on every successful write.
	Version int64
}

// NewCart creates an empty cart expiring ttl after now.
func NewCart(userID string, now time.Time, ttl time.Duration) *Cart {
	c := &Cart{
		ID:        "CART-" + uuid.NewString(),
		UserID:    userID,
		Items:     make([]CartItem, 0),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.CalculateTotals()
	return c
}

// AddItem merges into the existing line for the same product, keeping that
// line's snapshot, or appends a new line.
func (c *Cart) AddItem(item CartItem) {
	if idx := c.indexOf(item.ProductID); idx >= 0 {
		c.Items[idx].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.changed()
}

// UpdateItemQuantity replaces the quantity of the matching line. It does
// nothing when the product is not in the cart.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.Items[idx].Quantity = quantity
	c.changed()
}

// MarkAvailable refreshes the availability snapshot of a line.
func (c *Cart) MarkAvailable(productID string, available bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		c.Items[idx].Available = available
	}
}

// RemoveItem deletes the matching line. Removing an absent product leaves
// the cart untouched.
func (c *Cart) RemoveItem(productID string) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.changed()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.changed()
}

// CalculateTotals recomputes the derived fields from Items.
func (c *Cart) CalculateTotals() {
	totalItems := 0
	subtotal := decimal.Zero
	for _, item := range c.Items {
		totalItems += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}
	c.TotalItems = totalItems
	c.Subtotal = subtotal
	c.Total = subtotal
}

// Item returns the line for productID, if any.
func (c *Cart) Item(productID string) (CartItem, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

func (c *Cart) HasItem(productID string) bool {
	return c.indexOf(productID) >= 0
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) changed() {
	c.CalculateTotals()
	c.UpdatedAt = time.Now().UTC()
}
