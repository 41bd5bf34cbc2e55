package interceptors

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors/constants"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// TraceServerInterceptor copies the request id and idempotency key from
// incoming metadata into the context and logs the call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, exist := metadata.FromIncomingContext(ctx)
		requestID := ""
		idempotencyID := ""
		if exist {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}

			if ids := md.Get(constants.HeaderXIdempotencyKey); len(ids) > 0 {
				idempotencyID = ids[0]
			}
		}
		newCtx := constants.WithRequestID(ctx, requestID)
		newCtx = constants.WithIdempotencyKey(newCtx, idempotencyID)

		slog.DebugContext(newCtx, "grpc call", "method", info.FullMethod, "request_id", requestID, "idempotency_key", idempotencyID)

		return handler(newCtx, req)
	}
}
