package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/academypay/internal/metrics"
)

// LoggingInterceptor logs and counts every RPC. Client mistakes (bad input,
// unknown ids) log at Warn; Internal, DataLoss and errors without a Connect
// code log at Error. Install it after RequestIDInterceptor so the id is set.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			procedure := req.Spec().Procedure
			attrs := []any{
				"procedure", procedure,
				"request_id", GetRequestID(ctx),
				"peer", req.Peer().Addr,
				"duration_ms", elapsed.Milliseconds(),
			}

			code := "ok"
			level := slog.LevelInfo
			msg := "RPC ok"
			if err != nil {
				c := connect.CodeOf(err)
				code = c.String()
				level = levelFor(c)
				msg = "RPC error"
				attrs = append(attrs, "code", code, "error", err)
			}

			metrics.RPCRequests.WithLabelValues(procedure, code).Inc()
			metrics.RPCDuration.WithLabelValues(procedure).Observe(float64(elapsed.Microseconds()) / 1000)
			slog.Log(ctx, level, msg, attrs...)
			return resp, err
		}
	}
}

func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInternal, connect.CodeDataLoss, connect.CodeUnknown:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Interceptors returns the interceptor chain every service handler is built with.
func Interceptors() connect.HandlerOption {
	return connect.WithInterceptors(RequestIDInterceptor(), LoggingInterceptor())
}
