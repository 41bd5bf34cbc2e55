package activity

import (
	"context"
	"errors"
)

// ErrNoActivity is returned by Latest when a cart has no recorded entry.
var ErrNoActivity = errors.New("no activity recorded for cart")

// Repository persists activity entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	// Latest returns the most recent entry for a cart.
	Latest(ctx context.Context, cartID string) (*Entry, error)
}
