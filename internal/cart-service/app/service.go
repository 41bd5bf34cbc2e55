package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/mappers"
)

// maxSaveAttempts bounds the Load..Persist cycle when the store keeps
// reporting version conflicts.
const maxSaveAttempts = 3

type Config struct {
	MaxItemsPerCart int
	CartTTL         time.Duration
}

type Option func(*Service)

// WithActivityLog records every mutation outcome. A nil recorder disables it.
func WithActivityLog(r ActivityRecorder) Option {
	return func(s *Service) { s.activity = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	store    CartStore
	catalog  CatalogGateway
	activity ActivityRecorder
	cfg      Config
	now      func() time.Time
}

func NewService(store CartStore, catalog CatalogGateway, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutation is one request's Validate+Mutate step. It returns the stage
// reached, so a rejection can be attributed to validation or mutation.
type mutation func(ctx context.Context, cart *domain.Cart) (activity.Stage, error)

func (s *Service) CreateCart(ctx context.Context, userID string) (*mappers.CartResponse, error) {
	slog.InfoContext(ctx, "creating new cart", "user_id", userID)

	cart := domain.NewCart(userID, s.now(), s.cfg.CartTTL)
	saved, err := s.store.Save(ctx, cart)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist new cart", "cart_id", cart.ID, "error", err)
		s.record(ctx, activity.OpCreateCart, cart.ID, "", 0, activity.StagePersist, err)
		return nil, domain.InvalidOperation("unable to create cart, please try again later")
	}

	s.record(ctx, activity.OpCreateCart, saved.ID, "", 0, activity.StagePersist, nil)
	slog.InfoContext(ctx, "cart created", "cart_id", saved.ID, "expires_at", saved.ExpiresAt)
	return mappers.CartToResponse(saved), nil
}

func (s *Service) GetCart(ctx context.Context, cartID string) (*mappers.CartResponse, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return mappers.CartToResponse(cart), nil
}

func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*mappers.CartResponse, error) {
	slog.InfoContext(ctx, "adding item to cart", "cart_id", cartID, "product_id", productID, "quantity", quantity)

	if quantity < 1 {
		err := domain.InvalidOperation("quantity must be at least 1, got %d", quantity)
		s.record(ctx, activity.OpAddItem, cartID, productID, quantity, activity.StageValidate, err)
		return nil, err
	}

	return s.mutate(ctx, activity.OpAddItem, cartID, productID, quantity,
		func(ctx context.Context, cart *domain.Cart) (activity.Stage, error) {
			if err := s.checkCeiling(cart.TotalItems, quantity); err != nil {
				return activity.StageValidate, err
			}

			product, err := s.catalog.FetchProduct(ctx, productID)
			if errors.Is(err, domain.ErrProductNotFound) {
				return activity.StageValidate, domain.InvalidOperation("product not found: %s", productID)
			}
			if err != nil {
				return activity.StageValidate, domain.InvalidOperation("unable to validate product %s, please try again later", productID)
			}
			if !product.Available {
				return activity.StageValidate, domain.InvalidOperation("product %s is currently unavailable", productID)
			}
			if product.ID != productID {
				// Lines are keyed by the id the caller asked for.
				slog.WarnContext(ctx, "catalog returned a different product id",
					"product_id", productID, "catalog_product_id", product.ID)
				product.ID = productID
			}

			lineQuantity := quantity
			if existing, ok := cart.Item(productID); ok {
				lineQuantity += existing.Quantity
			}
			if !s.catalog.CheckAvailability(ctx, productID, lineQuantity) {
				return activity.StageValidate, domain.InvalidOperation("product %s is not available in requested quantity", productID)
			}

			cart.AddItem(domain.NewCartItem(product, quantity))
			return activity.StageMutate, nil
		})
}

func (s *Service) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (*mappers.CartResponse, error) {
	slog.InfoContext(ctx, "updating item quantity", "cart_id", cartID, "product_id", productID, "quantity", quantity)

	if quantity < 1 {
		err := domain.InvalidOperation("quantity must be at least 1, got %d", quantity)
		s.record(ctx, activity.OpUpdateItemQuantity, cartID, productID, quantity, activity.StageValidate, err)
		return nil, err
	}

	return s.mutate(ctx, activity.OpUpdateItemQuantity, cartID, productID, quantity,
		func(ctx context.Context, cart *domain.Cart) (activity.Stage, error) {
			existing, ok := cart.Item(productID)
			if !ok {
				return activity.StageValidate, domain.InvalidOperation("product not found in cart: %s", productID)
			}
			if err := s.checkCeiling(cart.TotalItems-existing.Quantity, quantity); err != nil {
				return activity.StageValidate, err
			}
			if !s.catalog.CheckAvailability(ctx, productID, quantity) {
				return activity.StageValidate, domain.InvalidOperation("product %s is not available in requested quantity", productID)
			}

			cart.UpdateItemQuantity(productID, quantity)
			cart.MarkAvailable(productID, true)
			return activity.StageMutate, nil
		})
}

func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*mappers.CartResponse, error) {
	slog.InfoContext(ctx, "removing item from cart", "cart_id", cartID, "product_id", productID)

	return s.mutate(ctx, activity.OpRemoveItem, cartID, productID, 0,
		func(_ context.Context, cart *domain.Cart) (activity.Stage, error) {
			cart.RemoveItem(productID)
			return activity.StageMutate, nil
		})
}

func (s *Service) ClearCart(ctx context.Context, cartID string) error {
	slog.InfoContext(ctx, "clearing cart", "cart_id", cartID)

	_, err := s.mutate(ctx, activity.OpClearCart, cartID, "", 0,
		func(_ context.Context, cart *domain.Cart) (activity.Stage, error) {
			cart.Clear()
			return activity.StageMutate, nil
		})
	return err
}

func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	slog.InfoContext(ctx, "deleting cart", "cart_id", cartID)

	if !s.store.Exists(ctx, cartID) {
		err := domain.CartNotFound(cartID)
		s.record(ctx, activity.OpDeleteCart, cartID, "", 0, activity.StageLoad, err)
		return err
	}

	if err := s.store.Delete(ctx, cartID); err != nil {
		slog.ErrorContext(ctx, "failed to delete cart", "cart_id", cartID, "error", err)
		s.record(ctx, activity.OpDeleteCart, cartID, "", 0, activity.StagePersist, err)
		return domain.InvalidOperation("unable to delete cart %s, please try again later", cartID)
	}

	s.record(ctx, activity.OpDeleteCart, cartID, "", 0, activity.StagePersist, nil)
	slog.InfoContext(ctx, "cart deleted", "cart_id", cartID)
	return nil
}

// mutate runs Load -> Validate/Mutate -> Persist -> Map. Validation happens
// before any change to the loaded cart, so a rejected request never reaches
// the store. A version conflict on save restarts from Load.
func (s *Service) mutate(ctx context.Context, op activity.Operation, cartID, productID string, quantity int, fn mutation) (*mappers.CartResponse, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		cart, err := s.load(ctx, cartID)
		if err != nil {
			s.record(ctx, op, cartID, productID, quantity, activity.StageLoad, err)
			return nil, err
		}

		if stage, err := fn(ctx, cart); err != nil {
			slog.WarnContext(ctx, "cart operation rejected", "operation", op, "cart_id", cartID, "error", err)
			s.record(ctx, op, cartID, productID, quantity, stage, err)
			return nil, err
		}

		saved, err := s.store.Save(ctx, cart)
		if errors.Is(err, domain.ErrVersionConflict) {
			slog.InfoContext(ctx, "cart changed concurrently, reloading", "cart_id", cartID, "attempt", attempt)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist cart", "cart_id", cartID, "error", err)
			s.record(ctx, op, cartID, productID, quantity, activity.StagePersist, err)
			return nil, domain.InvalidOperation("unable to save cart %s, please try again later", cartID)
		}

		s.record(ctx, op, cartID, productID, quantity, activity.StagePersist, nil)
		slog.InfoContext(ctx, "cart updated", "operation", op, "cart_id", cartID, "total_items", saved.TotalItems)
		return mappers.CartToResponse(saved), nil
	}

	err := fmt.Errorf("%w: %s", domain.ErrConcurrentModification, cartID)
	s.record(ctx, op, cartID, productID, quantity, activity.StagePersist, err)
	return nil, err
}

// load maps every store failure to ErrCartNotFound: a cart we cannot read
// is treated as absent.
func (s *Service) load(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.store.FindByID(ctx, cartID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load cart", "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("%w: %s (store unavailable)", domain.ErrCartNotFound, cartID)
	}
	return cart, nil
}

// checkCeiling rejects current+quantity above MaxItemsPerCart without
// computing the sum first, so a huge quantity cannot wrap around.
func (s *Service) checkCeiling(current, quantity int) error {
	limit := s.cfg.MaxItemsPerCart
	if quantity > limit || current > limit-quantity {
		return domain.InvalidOperation("cannot add item, cart limit of %d items exceeded (cart has %d, requested %d)",
			limit, current, quantity)
	}
	return nil
}

func (s *Service) record(ctx context.Context, op activity.Operation, cartID, productID string, quantity int, stage activity.Stage, err error) {
	if s.activity == nil {
		return
	}

	outcome, detail := activity.OutcomeCompleted, ""
	if err != nil {
		detail = err.Error()
		outcome = activity.OutcomeFailed
		if errors.Is(err, domain.ErrInvalidOperation) || errors.Is(err, domain.ErrCartNotFound) {
			outcome = activity.OutcomeRejected
		}
	}

	entry := activity.NewEntry(ctx, cartID, op, stage, outcome, detail)
	entry.ProductID = productID
	entry.Quantity = quantity
	if saveErr := s.activity.Save(ctx, entry); saveErr != nil {
		slog.ErrorContext(ctx, "failed to record cart activity", "cart_id", cartID, "operation", op, "error", saveErr)
	}
}
