package httpx

import (
	"time"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ActivityResponse struct {
	CartID     string    `json:"cart_id"`
	Operation  string    `json:"operation"`
	ProductID  string    `json:"product_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Stage      string    `json:"stage"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
	// Catalog is the catalog breaker state: closed, half-open or open.
	Catalog string `json:"catalog,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapActivityToResponse(e *activity.Entry) ActivityResponse {
	return ActivityResponse{
		CartID:     e.CartID,
		Operation:  string(e.Operation),
		ProductID:  e.ProductID,
		Quantity:   e.Quantity,
		Stage:      string(e.Stage),
		Outcome:    string(e.Outcome),
		Detail:     e.Detail,
		TraceID:    e.TraceID,
		RecordedAt: e.RecordedAt,
	}
}
