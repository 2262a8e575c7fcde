package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxClientID      ContextKey = "ctx_client_id"
	CtxClientToken   ContextKey = "ctx_client_token"
	CtxProviderToken ContextKey = "ctx_provider_token"

	// CtxIdempotencySource holds the request body the provider request id is derived from
	CtxIdempotencySource ContextKey = "ctx_idempotency_source"

	// Headers
	HeaderRequestID     = "X-Request-ID"
	HeaderClientID      = "Openam-Client"
	HeaderClientToken   = "Openam-Client-Token"
	HeaderProviderToken = "Paypal-Access-Token"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetClientID returns the identity-provider client that issued the request
func GetClientID(ctx context.Context) string {
	if clientID, ok := ctx.Value(CtxClientID).(string); ok {
		return clientID
	}
	return ""
}

func GetClientToken(ctx context.Context) string {
	if token, ok := ctx.Value(CtxClientToken).(string); ok {
		return token
	}
	return ""
}

// GetProviderToken returns the bearer token forwarded to the payment provider
func GetProviderToken(ctx context.Context) string {
	if token, ok := ctx.Value(CtxProviderToken).(string); ok {
		return token
	}
	return ""
}

func SetClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, CtxClientID, clientID)
}

func SetClientToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxClientToken, token)
}

func SetProviderToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxProviderToken, token)
}

// SetIdempotencySource records the body a client sent before it was amended
// for the provider. Create calls derive their provider request id from it.
func SetIdempotencySource(ctx context.Context, body []byte) context.Context {
	return context.WithValue(ctx, CtxIdempotencySource, body)
}

func GetIdempotencySource(ctx context.Context) []byte {
	if body, ok := ctx.Value(CtxIdempotencySource).([]byte); ok {
		return body
	}
	return nil
}
