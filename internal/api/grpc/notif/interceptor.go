package notif

import (
	"context"
	"path"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
)

// UnaryServerInterceptor counts push requests by method and status code and
// logs failed calls.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)

		method := path.Base(info.FullMethod)
		code := status.Code(err)

		metrics.PushRequestsTotal.WithLabelValues(method, code.String()).Inc()

		if err != nil {
			logger.WarnKV(ctx, "Push request failed", "method", method, "code", code, "error", err)
		}

		return resp, err
	}
}
