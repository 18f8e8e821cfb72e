package publisher

import (
	"context"
	"sync"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
)

// InMemory keeps publishers in a map. Used in tests and when the server runs
// without a database.
type InMemory struct {
	mu         sync.RWMutex
	publishers map[id.PublisherID]*models.Publisher
}

// NewInMemory constructs an empty in-memory publisher store.
func NewInMemory() *InMemory {
	return &InMemory{publishers: make(map[id.PublisherID]*models.Publisher)}
}

// Save persists a freshly minted publisher. Saving an already-saved
// publisher is a no-op, not an error.
func (s *InMemory) Save(_ context.Context, p *models.Publisher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(p)
	return nil
}

// SaveAll persists many publishers under one lock.
func (s *InMemory) SaveAll(_ context.Context, publishers ...*models.Publisher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range publishers {
		s.save(p)
	}
	return nil
}

func (s *InMemory) save(p *models.Publisher) {
	if _, ok := s.publishers[p.ID]; ok {
		return
	}
	cp := *p
	s.publishers[p.ID] = &cp
}

// FindByID returns the publisher or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, publisherID id.PublisherID) (*models.Publisher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.publishers[publisherID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
