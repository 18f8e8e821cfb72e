package service

import (
	"context"
	"errors"
	"strings"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	dErrors "traceability/pkg/domain-errors"
	"traceability/pkg/platform/sentinel"
	"traceability/pkg/requestcontext"
)

// Registry mints and resolves the three identity kinds. Minting performs no
// I/O so a freshly created identity can be wired into foreign keys before the
// surrounding aggregate is flushed; Save* then makes it durable, inside the
// same transaction that creates the owning entity when the caller carries one.
type Registry struct {
	cfg        *serviceConfig
	publishers PublisherStore
	subjects   SubjectStore
	actors     ActorStore
}

// NewRegistry constructs the identity registry service.
func NewRegistry(publishers PublisherStore, subjects SubjectStore, actors ActorStore, opts ...Option) *Registry {
	return &Registry{
		cfg:        newServiceConfig(opts),
		publishers: publishers,
		subjects:   subjects,
		actors:     actors,
	}
}

// NewPublisher mints a publisher identity with a diagnostic tag. Pure.
func (r *Registry) NewPublisher(ctx context.Context, tag string) *models.Publisher {
	return models.NewPublisher(tag, requestcontext.Now(ctx))
}

// SavePublishers durably persists minted publishers. Idempotent per id.
func (r *Registry) SavePublishers(ctx context.Context, publishers ...*models.Publisher) error {
	if len(publishers) == 0 {
		return nil
	}
	if err := r.publishers.SaveAll(ctx, publishers...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save publishers")
	}
	return nil
}

// GetPublisher resolves a publisher id to its registry record.
func (r *Registry) GetPublisher(ctx context.Context, publisherID id.PublisherID) (*models.Publisher, error) {
	if publisherID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "publisher id is required")
	}
	p, err := r.publishers.FindByID(ctx, publisherID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "publisher not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load publisher")
	}
	return p, nil
}

// NewSubject mints a subject identity with its category tag. Pure.
func (r *Registry) NewSubject(ctx context.Context, name string) (*models.Subject, error) {
	sub, err := models.NewSubject(name, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	return sub, nil
}

// SaveSubjects durably persists minted subjects. Idempotent per id.
func (r *Registry) SaveSubjects(ctx context.Context, subjects ...*models.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	if err := r.subjects.SaveAll(ctx, subjects...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save subjects")
	}
	return nil
}

// GetSubject resolves a subject id to its registry record.
func (r *Registry) GetSubject(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	if subjectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "subject id is required")
	}
	sub, err := r.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "subject not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}
	return sub, nil
}

// GetActor resolves an actor id to its registry record.
func (r *Registry) GetActor(ctx context.Context, actorID id.ActorID) (*models.Actor, error) {
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "actor id is required")
	}
	a, err := r.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load actor")
	}
	return a, nil
}

// GetOrCreateActor resolves the actor for an external reference, creating it
// on first use. Concurrent first-uses of the same reference are resolved by
// the store's uniqueness guarantee on external_ref: both callers converge on
// the single stored row.
func (r *Registry) GetOrCreateActor(ctx context.Context, externalRef string) (*models.Actor, error) {
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "actor external_ref is required")
	}

	if a, err := r.actors.FindByExternalRef(ctx, externalRef); err == nil {
		return a, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up actor")
	}

	minted, err := models.NewActor(externalRef, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	a, err := r.actors.CreateIfAbsent(ctx, minted)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create actor")
	}
	if a.ID == minted.ID {
		r.cfg.log(ctx, "actor created",
			"actor_id", a.ID.String(),
			"request_id", requestcontext.RequestID(ctx))
		if r.cfg.metrics != nil {
			r.cfg.metrics.IncrementActorsCreated()
		}
	}
	return a, nil
}
