package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity/sqlite"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/adapters/catalog"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/adapters/grpchealth"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/adapters/httpx"
	cartredis "github.com/jcmexdev/ecommerce-cart/internal/cart-service/adapters/redis"
	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/app"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/telemetry"
)

const serviceName = "cart-service"

func main() {
	cfg := config.Load()
	telemetry.InitLogger(serviceName, cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("cart service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	healthSrv := grpchealth.NewHealthServer()

	redisCache := cache.NewRedisCache(cfg.RedisAddr)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		// Carts are unavailable until Redis answers; reads degrade to not found.
		slog.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "error", err)
	}
	store := cartredis.NewCartStore(redisCache, cfg.CartTTL)

	breaker := catalog.NewBreaker(catalog.BreakerConfig{
		Window:           cfg.BreakerWindow,
		Cooldown:         cfg.BreakerCooldown,
		MinRequests:      uint32(cfg.BreakerMinRequests),
		FailureRatio:     cfg.BreakerFailureRatio,
		HalfOpenRequests: uint32(cfg.BreakerHalfOpenRequests),
		OnStateChange:    grpchealth.BreakerStateObserver(healthSrv),
	})
	gateway := catalog.NewGateway(
		catalog.NewHTTPClient(cfg.CatalogBaseURL, cfg.CatalogTimeout),
		breaker,
		catalog.RetryPolicy{
			MaxAttempts:     uint(cfg.CatalogRetryMaxAttempts),
			InitialInterval: cfg.CatalogRetryInitialInterval,
			MaxInterval:     10 * cfg.CatalogRetryInitialInterval,
			CallTimeout:     cfg.CatalogTimeout,
		},
	)

	var opts []app.Option
	var activityReader httpx.ActivityReader
	if cfg.ActivityDBPath != "" {
		activityRepo, err := sqlite.Open(cfg.ActivityDBPath)
		if err != nil {
			return err
		}
		defer activityRepo.Close()
		opts = append(opts, app.WithActivityLog(activityRepo))
		activityReader = activityRepo
		slog.Info("activity log enabled", "path", cfg.ActivityDBPath)
	}

	svc := app.NewService(store, gateway, app.Config{
		MaxItemsPerCart: cfg.CartMaxItems,
		CartTTL:         cfg.CartTTL,
	}, opts...)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpx.NewRouter(httpx.NewHandler(svc, activityReader, gateway)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	grpchealth.Register(grpcServer, healthSrv)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("cart service gRPC health running", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		slog.Info("cart service HTTP running", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	grpchealth.MarkServing(healthSrv)

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err = <-errCh:
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("http shutdown error", "error", shutdownErr)
	}
	grpcServer.GracefulStop()

	return err
}
