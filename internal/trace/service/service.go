// Package service implements the three surfaces of the traceability engine:
// the identity registries (mint/save/resolve), the emitter (transactional
// fan-out write) and the query layer (read-by-relevance).
package service

import (
	"context"
	"log/slog"

	tracemetrics "traceability/internal/trace/metrics"
	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/tx"
)

// PublisherStore persists publisher identities.
type PublisherStore interface {
	Save(ctx context.Context, p *models.Publisher) error
	SaveAll(ctx context.Context, publishers ...*models.Publisher) error
	FindByID(ctx context.Context, publisherID id.PublisherID) (*models.Publisher, error)
}

// SubjectStore persists subject identities.
type SubjectStore interface {
	Save(ctx context.Context, sub *models.Subject) error
	SaveAll(ctx context.Context, subjects ...*models.Subject) error
	FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error)
}

// ActorStore persists actor identities.
type ActorStore interface {
	Save(ctx context.Context, a *models.Actor) error
	CreateIfAbsent(ctx context.Context, a *models.Actor) (*models.Actor, error)
	FindByID(ctx context.Context, actorID id.ActorID) (*models.Actor, error)
	FindByExternalRef(ctx context.Context, externalRef string) (*models.Actor, error)
}

// EventStore persists events together with their fan-out links.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	ListByPublisher(ctx context.Context, publisherID id.PublisherID) ([]*models.Event, error)
	ListByActor(ctx context.Context, actorID id.ActorID) ([]*models.Event, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]*models.Event, error)
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *tracemetrics.Metrics
	tx      tx.Runner
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *tracemetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithTxRunner sets the transactional scope for emitter writes. Defaults to
// a pass-through runner, which is correct for memory stores only.
func WithTxRunner(runner tx.Runner) Option {
	return func(c *serviceConfig) { c.tx = runner }
}

func newServiceConfig(opts []Option) *serviceConfig {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = tx.PassthroughRunner{}
	}
	return cfg
}

func (c *serviceConfig) log(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.InfoContext(ctx, msg, args...)
	}
}
