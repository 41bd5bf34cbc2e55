package catalog

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
)

// BreakerName identifies the catalog dependency breaker in logs and health.
const BreakerName = "catalog"

type BreakerConfig struct {
	// Window is the closed-state counting period after which counts reset.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// MinRequests is the number of calls in the window before the failure
	// ratio is considered at all.
	MinRequests uint32
	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
	// HalfOpenRequests is the number of calls let through while half-open.
	HalfOpenRequests uint32
	// OnStateChange is optional.
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Window:           60 * time.Second,
		Cooldown:         30 * time.Second,
		MinRequests:      5,
		FailureRatio:     0.5,
		HalfOpenRequests: 1,
	}
}

// NewBreaker builds the process-wide breaker for the catalog dependency.
// One instance is shared by every call kind of the Gateway.
func NewBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			counted := counts.TotalSuccesses + counts.TotalFailures
			if counted < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counted)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
		// A missing product or a rejected request is a healthy answer from
		// the catalog. Only transport failures, 5xx, 429 and CallTimeout count.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, domain.ErrProductNotFound) {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && !se.Transient()
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, errAbandoned)
		},
	})
}
