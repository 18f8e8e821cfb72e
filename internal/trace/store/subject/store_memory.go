package subject

import (
	"context"
	"sync"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
)

// InMemory keeps subjects in a map. Used in tests and when the server runs
// without a database.
type InMemory struct {
	mu       sync.RWMutex
	subjects map[id.SubjectID]*models.Subject
}

// NewInMemory constructs an empty in-memory subject store.
func NewInMemory() *InMemory {
	return &InMemory{subjects: make(map[id.SubjectID]*models.Subject)}
}

// Save persists a freshly minted subject. Idempotent.
func (s *InMemory) Save(_ context.Context, sub *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(sub)
	return nil
}

// SaveAll persists many subjects under one lock.
func (s *InMemory) SaveAll(_ context.Context, subjects ...*models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range subjects {
		s.save(sub)
	}
	return nil
}

func (s *InMemory) save(sub *models.Subject) {
	if _, ok := s.subjects[sub.ID]; ok {
		return
	}
	cp := *sub
	s.subjects[sub.ID] = &cp
}

// FindByID returns the subject or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subjects[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}
