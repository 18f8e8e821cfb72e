package subject

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
)

type SubjectStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *SubjectStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestSubjectStoreSuite(t *testing.T) {
	suite.Run(t, new(SubjectStoreSuite))
}

func (s *SubjectStoreSuite) newSubject(name string) *models.Subject {
	sub, err := models.NewSubject(name, time.Now())
	s.Require().NoError(err)
	return sub
}

func (s *SubjectStoreSuite) TestSaveAndLookup() {
	s.Run("saves and finds subject by id", func() {
		sub := s.newSubject("COURSE_SUBJECT")
		s.Require().NoError(s.store.Save(s.ctx, sub))

		found, err := s.store.FindByID(s.ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal("COURSE_SUBJECT", found.Name)
	})

	s.Run("returns ErrNotFound for unsaved id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewSubjectID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *SubjectStoreSuite) TestIdempotentSave() {
	sub := s.newSubject("EXAM_SUBJECT")
	s.Require().NoError(s.store.Save(s.ctx, sub))
	s.Require().NoError(s.store.Save(s.ctx, sub))

	found, err := s.store.FindByID(s.ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(sub.ID, found.ID)
}

func (s *SubjectStoreSuite) TestSaveAll() {
	s1 := s.newSubject("COURSE_SUBJECT")
	s2 := s.newSubject("PAPER_SUBJECT")
	s.Require().NoError(s.store.SaveAll(s.ctx, s1, s2))

	for _, sub := range []*models.Subject{s1, s2} {
		found, err := s.store.FindByID(s.ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal(sub.Name, found.Name)
	}
}
