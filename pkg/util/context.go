package util

import (
	"context"
)

type key string

const (
	traderIDKey = key("trader-id")
)

// WithRequestID returns a context with request id.
// A new id is generated when the provided one is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// GetRequestID returns request id from context.
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// WithTraderID returns a context carrying the id of the trader that sent the request.
func WithTraderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traderIDKey, id)
}

// GetTraderID returns trader id from context
// will return empty string if not present
func GetTraderID(ctx context.Context) string {
	id, _ := ctx.Value(traderIDKey).(string)
	return id
}
