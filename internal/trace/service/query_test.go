package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traceability/internal/trace/codec"
	"traceability/internal/trace/models"
	"traceability/internal/trace/payload"
	actorstore "traceability/internal/trace/store/actor"
	eventstore "traceability/internal/trace/store/event"
	publisherstore "traceability/internal/trace/store/publisher"
	subjectstore "traceability/internal/trace/store/subject"
	id "traceability/pkg/domain"
	dErrors "traceability/pkg/domain-errors"
	"traceability/pkg/requestcontext"
)

type QuerySuite struct {
	suite.Suite
	ctx     context.Context
	reg     *Registry
	emitter *Emitter
	query   *Query

	subject   *models.Subject
	actor     *models.Actor
	publisher *models.Publisher
}

func (s *QuerySuite) SetupTest() {
	s.ctx = context.Background()
	events := eventstore.NewInMemory()
	s.reg = NewRegistry(
		publisherstore.NewInMemory(),
		subjectstore.NewInMemory(),
		actorstore.NewInMemory(),
	)
	c := codec.JSON{}
	s.emitter = NewEmitter(events, s.reg, c)
	s.query = NewQuery(events, c)

	var err error
	s.subject, err = s.reg.NewSubject(s.ctx, "COURSE_SUBJECT")
	s.Require().NoError(err)
	s.Require().NoError(s.reg.SaveSubjects(s.ctx, s.subject))

	s.actor, err = s.reg.GetOrCreateActor(s.ctx, "teacher-3")
	s.Require().NoError(err)

	s.publisher = s.reg.NewPublisher(s.ctx, "course")
	s.Require().NoError(s.reg.SavePublishers(s.ctx, s.publisher))
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(QuerySuite))
}

func (s *QuerySuite) emitAt(name string, at time.Time) *models.Event {
	ctx := requestcontext.WithTime(s.ctx, at)
	e, err := s.emitter.Emit(ctx, EmitRequest{
		PublisherIDs: []id.PublisherID{s.publisher.ID},
		ActorIDs:     []id.ActorID{s.actor.ID},
		SubjectID:    s.subject.ID,
		Name:         name,
		Payload:      payload.Fields(map[string]any{"step": name}),
	})
	s.Require().NoError(err)
	return e
}

// TestChronologicalOrder verifies every listing comes back oldest first,
// with the store-assigned sequence breaking same-timestamp ties by
// insertion order.
func (s *QuerySuite) TestChronologicalOrder() {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.emitAt("COURSE_ADD", base)
	s.emitAt("COURSE_UPDATE", base.Add(time.Minute))
	s.emitAt("COURSE_PUBLISH", base.Add(time.Minute)) // same instant as the update

	for name, list := range map[string]func() ([]*models.Event, error){
		"by publisher": func() ([]*models.Event, error) {
			return s.query.EventsForPublisher(s.ctx, s.publisher.ID)
		},
		"by actor": func() ([]*models.Event, error) {
			return s.query.EventsForActor(s.ctx, s.actor.ID)
		},
		"by subject": func() ([]*models.Event, error) {
			return s.query.EventsForSubject(s.ctx, s.subject.ID)
		},
	} {
		s.Run(name, func() {
			events, err := list()
			s.Require().NoError(err)
			s.Require().Len(events, 3)
			s.Equal("COURSE_ADD", events[0].Name)
			s.Equal("COURSE_UPDATE", events[1].Name)
			s.Equal("COURSE_PUBLISH", events[2].Name)
		})
	}
}

// TestPayloadEquals verifies comparison is structural: a typed value and its
// decoded generic form compare equal, while any differing field does not.
func (s *QuerySuite) TestPayloadEquals() {
	type courseFacts struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	event, err := s.emitter.Emit(s.ctx, EmitRequest{
		PublisherIDs: []id.PublisherID{s.publisher.ID},
		ActorIDs:     []id.ActorID{s.actor.ID},
		SubjectID:    s.subject.ID,
		Name:         "COURSE_ADD",
		Payload:      payload.Snapshot(courseFacts{ID: 42, Title: "Algebra"}),
	})
	s.Require().NoError(err)

	s.Run("structurally equal across representations", func() {
		equal, err := s.query.PayloadEquals(event, payload.Snapshot(map[string]any{
			"id":    42,
			"title": "Algebra",
		}))
		s.Require().NoError(err)
		s.True(equal)
	})

	s.Run("differing field value", func() {
		equal, err := s.query.PayloadEquals(event, payload.Snapshot(map[string]any{
			"id":    42,
			"title": "Geometry",
		}))
		s.Require().NoError(err)
		s.False(equal)
	})

	s.Run("differing kind", func() {
		equal, err := s.query.PayloadEquals(event, payload.Fields(map[string]any{"id": 42}))
		s.Require().NoError(err)
		s.False(equal)
	})
}

func (s *QuerySuite) TestNilIDsRejected() {
	_, err := s.query.EventsForPublisher(s.ctx, id.PublisherID{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.query.EventsForActor(s.ctx, id.ActorID{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.query.EventsForSubject(s.ctx, id.SubjectID{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *QuerySuite) TestEmptyHistory() {
	other := s.reg.NewPublisher(s.ctx, "classroom")
	s.Require().NoError(s.reg.SavePublishers(s.ctx, other))

	events, err := s.query.EventsForPublisher(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Empty(events)
}
