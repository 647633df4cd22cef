package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey   ctxKey = "request_id"
	cartSessionKey ctxKey = "cart_session"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, cartSessionKey, sessionID)
}

func CartSessionFrom(ctx context.Context) string {
	if v, ok := ctx.Value(cartSessionKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns the global logger enriched with the request_id and
// cart_session carried by ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	var fields []zap.Field
	if reqID := RequestIDFrom(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if session := CartSessionFrom(ctx); session != "" {
		fields = append(fields, zap.String("cart_session", session))
	}
	if len(fields) == 0 {
		return L()
	}
	return L().With(fields...)
}
