package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/cache"
)

const testTTL = 7 * 24 * time.Hour

func newTestStore(t *testing.T) (*CartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedisCache(mr.Addr())
	t.Cleanup(func() { _ = c.Close() })
	return NewCartStore(c, testTTL), mr
}

func sampleCart() *domain.Cart {
	c := domain.NewCart("user123", time.Now().UTC(), testTTL)
	c.AddItem(domain.NewCartItem(domain.Product{
		ID:       "PROD-001",
		Name:     "iPhone 15 Pro",
		Price:    decimal.RequireFromString("999.99"),
		ImageURL: "https://img.example.com/p1.png",
	}, 2))
	return c
}

func TestSaveAndFind(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	cart := sampleCart()

	saved, err := store.Save(ctx, cart)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("version: want=1 got=%d", saved.Version)
	}
	if ttl := mr.TTL("cart:" + cart.ID); ttl != testTTL {
		t.Fatalf("ttl: want=%s got=%s", testTTL, ttl)
	}

	got, err := store.FindByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.UserID != "user123" || got.Version != 1 {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "PROD-001" || got.Items[0].Quantity != 2 {
		t.Fatalf("items: %+v", got.Items)
	}
	if !got.Total.Equal(decimal.RequireFromString("1999.98")) {
		t.Fatalf("total: got %s", got.Total)
	}
	if !got.CreatedAt.Equal(cart.CreatedAt) {
		t.Fatalf("created at: want=%s got=%s", cart.CreatedAt, got.CreatedAt)
	}
}

func TestSaveResetsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(6 * 24 * time.Hour)

	if _, err := store.Save(ctx, saved); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if ttl := mr.TTL("cart:" + saved.ID); ttl != testTTL {
		t.Fatalf("ttl not reset: %s", ttl)
	}
}

func TestExpiredCartIsAbsent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(testTTL + time.Second)

	if _, err := store.FindByID(ctx, saved.ID); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if store.Exists(ctx, saved.ID) {
		t.Fatalf("expired cart reported as existing")
	}
}

func TestFindUnknownCart(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.FindByID(context.Background(), "CART-missing")
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestDeleteAndExists(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists(ctx, saved.ID) {
		t.Fatalf("saved cart not found by Exists")
	}

	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Exists(ctx, saved.ID) {
		t.Fatalf("deleted cart still exists")
	}
}

func TestExistsTreatsBackendErrorAsAbsent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.Close()

	if store.Exists(ctx, saved.ID) {
		t.Fatalf("expected false when redis is unreachable")
	}
}

func TestSaveRejectsStaleVersion(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, _ := mr.Get("cart:" + first.ID)

	// Two requests loaded version 1; the first one wins.
	a, _ := store.FindByID(ctx, first.ID)
	b, _ := store.FindByID(ctx, first.ID)
	a.RemoveItem("PROD-001")
	if _, err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save a: %v", err)
	}

	b.Clear()
	_, err = store.Save(ctx, b)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	after, _ := mr.Get("cart:" + first.ID)
	if after == before {
		t.Fatalf("winning write was not stored")
	}
}

func TestSaveDoesNotResurrectDeletedCart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleCart())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = store.Save(ctx, saved)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if store.Exists(ctx, saved.ID) {
		t.Fatalf("deleted cart came back")
	}
}
