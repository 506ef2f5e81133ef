package appctx

import (
	"context"
)

// Context keys for request-scoped values
type contextKey string

const (
	BotTokenContextKey  contextKey = "bot_token"
	RequestIDContextKey contextKey = "request_id"
)

// SetBotToken adds the caller's bot token to the request context
func SetBotToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, BotTokenContextKey, token)
}

// GetBotToken extracts the caller's bot token from the request context
func GetBotToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(BotTokenContextKey).(string)
	return token, ok && token != ""
}

// SetRequestID adds the proxy correlation ID to the request context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetRequestID extracts the proxy correlation ID from the request context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	return requestID, ok && requestID != ""
}
