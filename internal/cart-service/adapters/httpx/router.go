package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/adapters/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Post("/", handler.CreateCart)
		r.Route("/{cartId}", func(r chi.Router) {
			r.Get("/", handler.GetCart)
			r.Delete("/", handler.DeleteCart)
			r.Get("/activity/latest", handler.LatestActivity)

			r.Post("/items", handler.AddItem)
			r.Delete("/items", handler.ClearCart)
			r.Put("/items/{productId}", handler.UpdateItemQuantity)
			r.Delete("/items/{productId}", handler.RemoveItem)
		})
	})

	return otelhttp.NewHandler(r, "cart-service",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
