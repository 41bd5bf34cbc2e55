package interceptors

import (
	"context"

	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors/constants"
	"google.golang.org/grpc/metadata"
)

// GetMetadataValue looks a propagated header up in the context values first,
// then in incoming and outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(constants.KeyFor(key)).(string); ok && v != "" {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
