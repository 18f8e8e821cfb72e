// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are typically set by middleware but consumed by services. Keeping
// this package free of net/http dependencies lets services import only what
// they need.
//
// Usage in services (read values):
//
//	now := requestcontext.Now(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithTime(ctx, time.Now())
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestTimeKey struct{}
	requestIDKey   struct{}
	actorRefKey    struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyActorRef    = actorRefKey{}
)

// Now returns the request timestamp pinned into the context, or the current
// wall-clock time when none is set. Pinning the time once per request keeps
// every record written during that request on the same timestamp.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed timestamp into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// RequestID retrieves the correlation id from the context, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// ActorRef retrieves the external reference of the caller identity, or "".
func ActorRef(ctx context.Context) string {
	if ref, ok := ctx.Value(ContextKeyActorRef).(string); ok {
		return ref
	}
	return ""
}

// WithActorRef injects the caller's external reference into the context.
func WithActorRef(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, ContextKeyActorRef, ref)
}
