// Package trace wires the traceability engine: identity registries, the
// event emitter, and the query layer.
package trace

import (
	"log/slog"

	"traceability/internal/trace/codec"
	"traceability/internal/trace/handler"
	"traceability/internal/trace/service"
)

// Registry mints and resolves publisher, subject and actor identities.
type Registry = service.Registry

// Emitter is the single mutation entry point for event records.
type Emitter = service.Emitter

// Query exposes the read-by-relevance accessors.
type Query = service.Query

// Handler wires the read-only HTTP endpoints to the query service.
type Handler = handler.Handler

// NewRegistry constructs the registry service with required stores.
func NewRegistry(publishers service.PublisherStore, subjects service.SubjectStore, actors service.ActorStore, opts ...service.Option) *Registry {
	return service.NewRegistry(publishers, subjects, actors, opts...)
}

// NewEmitter constructs the emitter with required dependencies.
func NewEmitter(events service.EventStore, reg *Registry, c codec.Codec, opts ...service.Option) *Emitter {
	return service.NewEmitter(events, reg, c, opts...)
}

// NewQuery constructs the query service.
func NewQuery(events service.EventStore, c codec.Codec, opts ...service.Option) *Query {
	return service.NewQuery(events, c, opts...)
}

// NewHandler constructs an HTTP handler for audit-trail read routes.
func NewHandler(q *Query, logger *slog.Logger) *Handler {
	return handler.New(q, logger)
}
