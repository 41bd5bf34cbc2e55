package app

import (
	"context"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

// CartStore is the only persistence authority for carts.
type CartStore interface {
	// Save upserts and resets the TTL. It fails with domain.ErrVersionConflict
	// when the stored version is not cart.Version.
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	// FindByID fails with domain.ErrCartNotFound for absent or expired carts.
	FindByID(ctx context.Context, cartID string) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
	Exists(ctx context.Context, cartID string) bool
}

// CatalogGateway never returns reachability errors; see adapters/catalog.
type CatalogGateway interface {
	FetchProduct(ctx context.Context, productID string) (domain.Product, error)
	CheckAvailability(ctx context.Context, productID string, quantity int) bool
}

// ActivityRecorder receives one entry per mutating request.
type ActivityRecorder interface {
	Save(ctx context.Context, entry *activity.Entry) error
}
