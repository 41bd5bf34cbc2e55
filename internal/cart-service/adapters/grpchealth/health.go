package grpchealth

import (
	"log/slog"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	ServiceCart    = "cart"
	ServiceCatalog = "catalog"
)

// NewHealthServer starts every service as NOT_SERVING. Call MarkServing
// once wiring succeeds.
func NewHealthServer() *health.Server {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceCart, healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceCatalog, healthpb.HealthCheckResponse_SERVING)
	return h
}

func MarkServing(h *health.Server) {
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceCart, healthpb.HealthCheckResponse_SERVING)
}

func Register(s *grpc.Server, h *health.Server) {
	healthpb.RegisterHealthServer(s, h)
}

// BreakerStateObserver mirrors the catalog breaker into the "catalog"
// health service. Pass it as catalog.BreakerConfig.OnStateChange.
func BreakerStateObserver(h *health.Server) func(name string, from, to gobreaker.State) {
	return func(name string, _, to gobreaker.State) {
		status := healthpb.HealthCheckResponse_SERVING
		if to == gobreaker.StateOpen {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		slog.Info("catalog health updated", "breaker", name, "state", to.String(), "status", status.String())
		h.SetServingStatus(ServiceCatalog, status)
	}
}
