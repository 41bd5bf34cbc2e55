package interceptors

import (
	"context"
	"testing"

	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors/constants"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestGetMetadataValue(t *testing.T) {
	t.Run("context value wins", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.HeaderXRequestId, "from-md"))
		ctx = constants.WithRequestID(ctx, "from-ctx")
		if got := GetMetadataValue(ctx, constants.HeaderXRequestId); got != "from-ctx" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("incoming metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.HeaderXIdempotencyKey, "idem-1"))
		if got := GetMetadataValue(ctx, constants.HeaderXIdempotencyKey); got != "idem-1" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("outgoing metadata", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), constants.HeaderXRequestId, "out-1")
		if got := GetMetadataValue(ctx, constants.HeaderXRequestId); got != "out-1" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if got := GetMetadataValue(context.Background(), constants.HeaderXRequestId); got != "" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestTraceServerInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestId, "req-7",
		constants.HeaderXIdempotencyKey, "idem-7",
	))

	var seenReq, seenIdem string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seenReq, _ = ctx.Value(constants.ContextKeyRequestID).(string)
		seenIdem, _ = ctx.Value(constants.ContextKeyIdempotencyKey).(string)
		return "ok", nil
	}

	res, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	if err != nil || res != "ok" {
		t.Fatalf("interceptor: res=%v err=%v", res, err)
	}
	if seenReq != "req-7" || seenIdem != "idem-7" {
		t.Fatalf("context values: req=%q idem=%q", seenReq, seenIdem)
	}
}
