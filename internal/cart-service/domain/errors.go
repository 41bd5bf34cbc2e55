package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCartNotFound means there is no live cart for the given id.
	ErrCartNotFound = errors.New("cart not found")

	// ErrInvalidOperation is a business rule violation. The wrapped message
	// carries the human readable reason.
	ErrInvalidOperation = errors.New("invalid cart operation")

	// ErrConcurrentModification is returned when a cart kept changing under
	// a request until it gave up. It is also an ErrInvalidOperation.
	ErrConcurrentModification = fmt.Errorf("%w: cart was modified concurrently", ErrInvalidOperation)

	// ErrProductNotFound is the catalog saying the product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrVersionConflict is returned by the store when the cart version
	// being written is not the one currently stored.
	ErrVersionConflict = errors.New("cart version conflict")
)

// InvalidOperation builds an ErrInvalidOperation with a formatted reason.
func InvalidOperation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

// CartNotFound builds an ErrCartNotFound naming the cart.
func CartNotFound(cartID string) error {
	return fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
}
