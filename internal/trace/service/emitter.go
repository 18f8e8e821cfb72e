package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"traceability/internal/trace/codec"
	"traceability/internal/trace/models"
	"traceability/internal/trace/payload"
	id "traceability/pkg/domain"
	dErrors "traceability/pkg/domain-errors"
	"traceability/pkg/requestcontext"
)

// EmitRequest names the targets and content of one event emission.
type EmitRequest struct {
	// PublisherIDs are the channels of every entity the change is relevant
	// to: the entity itself, its parent, any other referenced entity.
	// Duplicates are ignored. Must be non-empty.
	PublisherIDs []id.PublisherID
	// ActorIDs identify who or what performed the action. Duplicates are
	// ignored. Must be non-empty.
	ActorIDs []id.ActorID
	// SubjectID files the event under its topical classification.
	SubjectID id.SubjectID
	// Name is the event name, e.g. "COURSE_UPDATE". Must be non-empty.
	Name string
	// Payload is the event data envelope, stored opaquely via the codec.
	Payload payload.Envelope
}

// Emitter is the write path: it denormalizes relevance at write time into
// explicit link rows, paying a bounded cost once per event (typically 2-6
// publishers) in exchange for indexed retrieval from any single entity's
// perspective.
type Emitter struct {
	cfg    *serviceConfig
	events EventStore
	reg    *Registry
	codec  codec.Codec
}

// NewEmitter constructs the emitter. The registry resolves target ids before
// any write; the codec serializes payloads; the tx runner (via options)
// scopes the fan-out write.
func NewEmitter(events EventStore, reg *Registry, c codec.Codec, opts ...Option) *Emitter {
	return &Emitter{
		cfg:    newServiceConfig(opts),
		events: events,
		reg:    reg,
		codec:  c,
	}
}

var tracer = otel.Tracer("traceability/trace")

// Emit records one immutable event and links it to every given publisher and
// actor in a single transaction. It either fully commits or fully fails
// before returning; a failed write is surfaced unmodified with no retry, and
// the caller is expected to abort its encompassing business transaction.
//
// Precondition violations fail with a validation error and perform no write;
// unresolvable ids fail with not_found before any write.
func (e *Emitter) Emit(ctx context.Context, req EmitRequest) (*models.Event, error) {
	ctx, span := tracer.Start(ctx, "trace.Emit")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.name", req.Name),
		attribute.Int("event.publishers", len(req.PublisherIDs)),
		attribute.Int("event.actors", len(req.ActorIDs)),
	)

	event, err := e.emit(ctx, req)
	if err != nil {
		if e.cfg.metrics != nil {
			e.cfg.metrics.IncrementEmitFailures()
		}
		return nil, err
	}
	return event, nil
}

func (e *Emitter) emit(ctx context.Context, req EmitRequest) (*models.Event, error) {
	publisherIDs := dedupePublisherIDs(req.PublisherIDs)
	actorIDs := dedupeActorIDs(req.ActorIDs)

	if err := validateEmitRequest(publisherIDs, actorIDs, req); err != nil {
		return nil, err
	}

	subject, err := e.reg.GetSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	publishers := make([]*models.Publisher, 0, len(publisherIDs))
	for _, pid := range publisherIDs {
		p, err := e.reg.GetPublisher(ctx, pid)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	actors := make([]*models.Actor, 0, len(actorIDs))
	for _, aid := range actorIDs {
		a, err := e.reg.GetActor(ctx, aid)
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}

	serialized, err := e.codec.Serialize(req.Payload)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:           id.NewEventID(),
		Name:         req.Name,
		Payload:      serialized,
		SubjectID:    subject.ID,
		CreatedAt:    requestcontext.Now(ctx),
		PublisherIDs: publisherIDs,
		ActorIDs:     actorIDs,
	}

	err = e.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return e.events.Create(txCtx, event)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist event")
	}

	event.Subject = subject
	event.Publishers = publishers
	event.Actors = actors

	e.cfg.log(ctx, "event emitted",
		"event_id", event.ID.String(),
		"event", event.Name,
		"subject_id", subject.ID.String(),
		"publishers", len(publishers),
		"actors", len(actors),
		"request_id", requestcontext.RequestID(ctx))
	if e.cfg.metrics != nil {
		e.cfg.metrics.IncrementEventsEmitted(len(publisherIDs) + len(actorIDs))
	}
	return event, nil
}

func validateEmitRequest(publisherIDs []id.PublisherID, actorIDs []id.ActorID, req EmitRequest) error {
	if len(publisherIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one publisher id is required")
	}
	if len(actorIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one actor id is required")
	}
	if req.SubjectID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "subject id is required")
	}
	if req.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "event name is required")
	}
	if req.Payload.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "payload is required")
	}
	return nil
}

func dedupePublisherIDs(ids []id.PublisherID) []id.PublisherID {
	seen := make(map[id.PublisherID]struct{}, len(ids))
	out := make([]id.PublisherID, 0, len(ids))
	for _, v := range ids {
		if v.IsNil() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupeActorIDs(ids []id.ActorID) []id.ActorID {
	seen := make(map[id.ActorID]struct{}, len(ids))
	out := make([]id.ActorID, 0, len(ids))
	for _, v := range ids {
		if v.IsNil() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
