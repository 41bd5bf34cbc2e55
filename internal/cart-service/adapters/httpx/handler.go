package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/mappers"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors/constants"
)

// CartService is implemented by app.Service.
type CartService interface {
	CreateCart(ctx context.Context, userID string) (*mappers.CartResponse, error)
	GetCart(ctx context.Context, cartID string) (*mappers.CartResponse, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*mappers.CartResponse, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (*mappers.CartResponse, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*mappers.CartResponse, error)
	ClearCart(ctx context.Context, cartID string) error
	DeleteCart(ctx context.Context, cartID string) error
}

type ActivityReader interface {
	Latest(ctx context.Context, cartID string) (*activity.Entry, error)
}

// CatalogHealth is implemented by catalog.Gateway.
type CatalogHealth interface {
	BreakerState() gobreaker.State
}

type Handler struct {
	carts    CartService
	activity ActivityReader // nil-safe: the activity endpoint answers 404
	catalog  CatalogHealth  // nil-safe: omitted from /healthz
}

func NewHandler(carts CartService, activityReader ActivityReader, catalog CatalogHealth) *Handler {
	return &Handler{
		carts:    carts,
		activity: activityReader,
		catalog:  catalog,
	}
}

// CreateCart takes an optional userId query parameter; carts without one
// are anonymous.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))

	requestID, _ := r.Context().Value(constants.ContextKeyRequestID).(string)
	slog.InfoContext(r.Context(), "create cart request", "request_id", requestID, "user_id", userID)

	cart, err := h.carts.CreateCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetCart(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be at least 1")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), chi.URLParam(r, "cartId"), req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be at least 1")
		return
	}

	cart, err := h.carts.UpdateItemQuantity(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearCart(r.Context(), chi.URLParam(r, "cartId")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.DeleteCart(r.Context(), chi.URLParam(r, "cartId")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LatestActivity returns the last recorded mutation of a cart.
func (h *Handler) LatestActivity(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	if h.activity == nil {
		writeError(w, http.StatusNotFound, "activity_disabled", "activity log is not configured")
		return
	}

	entry, err := h.activity.Latest(r.Context(), cartID)
	if errors.Is(err, activity.ErrNoActivity) {
		writeError(w, http.StatusNotFound, "activity_not_found", err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read cart activity", "cart_id", cartID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unable to read activity")
		return
	}
	writeJSON(w, http.StatusOK, mapActivityToResponse(entry))
}

// Health always answers 200: an open catalog breaker degrades mutations but
// reads keep working.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	res := HealthResponse{Status: "ok"}
	if h.catalog != nil {
		res.Catalog = h.catalog.BreakerState().String()
	}
	writeJSON(w, http.StatusOK, res)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		writeError(w, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, domain.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "concurrent_modification", err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		writeError(w, http.StatusBadRequest, "invalid_operation", err.Error())
	default:
		slog.ErrorContext(r.Context(), "unexpected cart service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
