// Package observability provides gRPC interceptors and the observability HTTP server.
package observability

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"stt-gateway/internal/observability/metrics"
)

// UnaryServerInterceptor records metrics for unary calls (health checks,
// reflection) and logs them at debug.
func UnaryServerInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observe(ctx, m, info.FullMethod, err, time.Since(start), log.Debug())
		return resp, err
	}
}

// StreamServerInterceptor records metrics for streaming calls and logs one
// line per completed session stream.
func StreamServerInterceptor(m *metrics.Metrics) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)

		// a caller hanging up is routine for a streaming API
		event := log.Info()
		if c := status.Code(err); c != codes.OK && c != codes.Canceled {
			event = log.Warn()
		}
		observe(ss.Context(), m, info.FullMethod, err, time.Since(start), event)
		return err
	}
}

func observe(ctx context.Context, m *metrics.Metrics, method string, err error, d time.Duration, event *zerolog.Event) {
	code := status.Code(err).String()
	m.RecordRPC(method, code, d.Seconds())

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		event = event.Str("peer", p.Addr.String())
	}
	event.
		Str("method", method).
		Str("code", code).
		Dur("duration", d).
		Msg("gRPC call completed")
}
