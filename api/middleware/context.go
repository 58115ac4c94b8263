package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pos-register/pkg/logger"
)

type contextKey string

const (
	ctxRequestID  contextKey = "request_id"
	ctxRegisterID contextKey = "register_id"
)

// RequestIDFromContext returns the id set by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// RegisterIDFromContext returns the register that owns the request.
func RegisterIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRegisterID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, requestID)
}

func WithRegisterID(ctx context.Context, registerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRegisterID, registerID)
}

// Register tags every request with the serving register's id.
func Register(registerID string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRegisterID(r.Context(), registerID)
			if logg != nil {
				ctx = logg.WithRegisterID(ctx, registerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
