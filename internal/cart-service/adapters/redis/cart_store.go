// Package redis stores Cart aggregates as JSON documents under "cart:{id}"
// with a TTL that is reset on every write.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/cache"
)

const keyNamespace = "cart"

// CartStore is the redis backed cart repository.
type CartStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCartStore(c cache.Cache, ttl time.Duration) *CartStore {
	return &CartStore{cache: c, ttl: ttl}
}

// Save upserts the cart if the stored version still matches cart.Version.
// A cart that expired or was deleted since it was loaded is a conflict too,
// so a stale request cannot resurrect it.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	key := s.cache.GenerateKey(keyNamespace, cart.ID)

	next := *cart
	next.Version = cart.Version + 1

	err := s.cache.Update(ctx, key, s.ttl, func(current string, found bool) (string, error) {
		var storedVersion int64
		if found {
			stored, err := decodeCart(current)
			if err != nil {
				return "", err
			}
			storedVersion = stored.Version
		}
		if storedVersion != cart.Version {
			return "", fmt.Errorf("%w: cart %s stored=%d given=%d",
				domain.ErrVersionConflict, cart.ID, storedVersion, cart.Version)
		}
		return encodeCart(&next)
	})
	if errors.Is(err, cache.ErrConflict) {
		return nil, fmt.Errorf("%w: cart %s: %v", domain.ErrVersionConflict, cart.ID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: save cart %s: %w", cart.ID, err)
	}

	slog.DebugContext(ctx, "cart saved", "cart_id", cart.ID, "version", next.Version, "ttl", s.ttl.String())
	return &next, nil
}

func (s *CartStore) FindByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	raw, err := s.cache.Get(ctx, s.cache.GenerateKey(keyNamespace, cartID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, domain.CartNotFound(cartID)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: find cart %s: %w", cartID, err)
	}

	cart, err := decodeCart(raw)
	if err != nil {
		return nil, fmt.Errorf("redis: find cart %s: %w", cartID, err)
	}
	return cart, nil
}

func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	if err := s.cache.Delete(ctx, s.cache.GenerateKey(keyNamespace, cartID)); err != nil {
		return fmt.Errorf("redis: delete cart %s: %w", cartID, err)
	}
	slog.DebugContext(ctx, "cart deleted", "cart_id", cartID)
	return nil
}

// Exists reports false when redis cannot answer.
func (s *CartStore) Exists(ctx context.Context, cartID string) bool {
	ok, err := s.cache.Exists(ctx, s.cache.GenerateKey(keyNamespace, cartID))
	if err != nil {
		slog.WarnContext(ctx, "unable to verify cart existence, assuming absent", "cart_id", cartID, "error", err)
		return false
	}
	return ok
}
