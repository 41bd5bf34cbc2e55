// Package catalog is the cart service's view of the Catalog service.
//
// Gateway decorates a Remote with a bounded retry, the shared circuit
// breaker and a static fallback, so callers never see a reachability
// failure: FetchProduct degrades to FallbackProduct and CheckAvailability
// degrades to false. Only a genuine "product does not exist" escapes as
// domain.ErrProductNotFound.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

// errAbandoned marks an attempt cut short by the caller's own context rather
// than by CallTimeout. The breaker ignores it.
var errAbandoned = errors.New("catalog: caller abandoned request")

type RetryPolicy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// CallTimeout bounds each attempt.
	CallTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		CallTimeout:     2 * time.Second,
	}
}

type Gateway struct {
	remote  Remote
	breaker *gobreaker.CircuitBreaker[any]
	policy  RetryPolicy
}

func NewGateway(remote Remote, breaker *gobreaker.CircuitBreaker[any], policy RetryPolicy) *Gateway {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 1
	}
	if policy.CallTimeout <= 0 {
		policy.CallTimeout = DefaultRetryPolicy().CallTimeout
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = DefaultRetryPolicy().InitialInterval
	}
	return &Gateway{
		remote:  remote,
		breaker: breaker,
		policy:  policy,
	}
}

// FetchProduct returns the catalog product, domain.ErrProductNotFound, or
// the fallback placeholder when the catalog cannot be reached.
func (g *Gateway) FetchProduct(ctx context.Context, productID string) (domain.Product, error) {
	res, err := g.call(ctx, "fetch_product", productID, func(ctx context.Context) (any, error) {
		p, err := g.remote.GetProduct(ctx, productID)
		return p, err
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		slog.InfoContext(ctx, "product not found in catalog", "product_id", productID)
		return domain.Product{}, fmt.Errorf("catalog: %w: %s", domain.ErrProductNotFound, productID)
	}
	if err != nil {
		slog.WarnContext(ctx, "fallback: catalog unavailable for product", "product_id", productID, "error", err)
		return FallbackProduct(productID), nil
	}

	p, ok := res.(domain.Product)
	if !ok {
		return FallbackProduct(productID), nil
	}
	return p, nil
}

// CheckAvailability denies on any failure.
func (g *Gateway) CheckAvailability(ctx context.Context, productID string, quantity int) bool {
	res, err := g.call(ctx, "check_availability", productID, func(ctx context.Context) (any, error) {
		ok, err := g.remote.CheckAvailability(ctx, productID, quantity)
		return ok, err
	})
	if err != nil {
		slog.WarnContext(ctx, "fallback: catalog unavailable for availability check",
			"product_id", productID, "quantity", quantity, "error", err)
		return false
	}

	available, _ := res.(bool)
	return available
}

// BreakerState is exposed for health reporting.
func (g *Gateway) BreakerState() gobreaker.State {
	return g.breaker.State()
}

func (g *Gateway) call(ctx context.Context, op, productID string, fn func(ctx context.Context) (any, error)) (any, error) {
	attempt := func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %w", errAbandoned, err))
		}
		res, err := g.breaker.Execute(func() (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, g.policy.CallTimeout)
			defer cancel()
			res, err := fn(callCtx)
			if err != nil && ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", errAbandoned, ctx.Err())
			}
			return res, err
		})
		if err == nil {
			return res, nil
		}
		if isPermanent(err) || errors.Is(err, errAbandoned) ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.policy.InitialInterval
	if g.policy.MaxInterval > 0 {
		b.MaxInterval = g.policy.MaxInterval
	}

	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(g.policy.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.DebugContext(ctx, "retrying catalog call",
				"operation", op, "product_id", productID, "error", err, "backoff", next.String())
		}),
	)
}
