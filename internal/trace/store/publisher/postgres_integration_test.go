//go:build integration

package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
	"traceability/pkg/testutil/containers"
)

type PublisherPostgresSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	store     *PostgresStore
	ctx       context.Context
}

func (s *PublisherPostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.container.DB)
}

func (s *PublisherPostgresSuite) SetupTest() {
	s.Require().NoError(s.container.TruncateTables(s.ctx, "publishers"))
}

func TestPublisherPostgresSuite(t *testing.T) {
	suite.Run(t, new(PublisherPostgresSuite))
}

func (s *PublisherPostgresSuite) TestSaveAndFind() {
	p := models.NewPublisher("course", time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("course", found.Tag)

	_, err = s.store.FindByID(s.ctx, id.NewPublisherID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestIdempotentSave verifies re-saving an identity is a no-op, not an error.
func (s *PublisherPostgresSuite) TestIdempotentSave() {
	p := models.NewPublisher("space", time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, p))
	s.Require().NoError(s.store.Save(s.ctx, p))

	var count int
	s.Require().NoError(s.container.DB.QueryRowContext(s.ctx,
		"SELECT COUNT(*) FROM publishers WHERE id = $1", p.ID.String()).Scan(&count))
	s.Equal(1, count)
}

func (s *PublisherPostgresSuite) TestSaveAll() {
	p1 := models.NewPublisher("course", time.Now().UTC())
	p2 := models.NewPublisher("classroom", time.Now().UTC())
	s.Require().NoError(s.store.SaveAll(s.ctx, p1, p2))

	for _, p := range []*models.Publisher{p1, p2} {
		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.Tag, found.Tag)
	}
}
