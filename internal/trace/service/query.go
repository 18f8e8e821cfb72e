package service

import (
	"context"

	"traceability/internal/trace/codec"
	"traceability/internal/trace/models"
	"traceability/internal/trace/payload"
	id "traceability/pkg/domain"
	dErrors "traceability/pkg/domain-errors"
)

// Query is the read path. All operations are pure: they mutate nothing and
// re-querying returns a consistent snapshot subject to store isolation.
type Query struct {
	cfg    *serviceConfig
	events EventStore
	codec  codec.Codec
}

// NewQuery constructs the query service.
func NewQuery(events EventStore, c codec.Codec, opts ...Option) *Query {
	return &Query{
		cfg:    newServiceConfig(opts),
		events: events,
		codec:  c,
	}
}

// EventsForPublisher returns every event linked to the publisher, ordered by
// (created_at, seq) ascending.
func (q *Query) EventsForPublisher(ctx context.Context, publisherID id.PublisherID) ([]*models.Event, error) {
	if publisherID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "publisher id is required")
	}
	events, err := q.events.ListByPublisher(ctx, publisherID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events by publisher")
	}
	return events, nil
}

// EventsForActor returns every event linked to the actor, ordered by
// (created_at, seq) ascending.
func (q *Query) EventsForActor(ctx context.Context, actorID id.ActorID) ([]*models.Event, error) {
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "actor id is required")
	}
	events, err := q.events.ListByActor(ctx, actorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events by actor")
	}
	return events, nil
}

// EventsForSubject returns every event filed under the subject. This
// ordering is the basis for reconstructing the history of an entity.
func (q *Query) EventsForSubject(ctx context.Context, subjectID id.SubjectID) ([]*models.Event, error) {
	if subjectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "subject id is required")
	}
	events, err := q.events.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events by subject")
	}
	return events, nil
}

// PayloadEquals reports whether the event recorded exactly the expected
// data: the stored payload is decoded through the codec and compared
// structurally, field by field, never by reference identity.
func (q *Query) PayloadEquals(event *models.Event, expected payload.Envelope) (bool, error) {
	var stored payload.Envelope
	if err := q.codec.Deserialize(event.Payload, &stored); err != nil {
		return false, err
	}
	return codec.Equal(q.codec, stored, expected)
}
