package actor

import (
	"context"
	"sync"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
)

// InMemory keeps actors in maps indexed by id and external reference.
// A single mutex serializes first-use creation, which gives the race-free
// get-or-create the postgres store gets from its unique constraint.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[id.ActorID]*models.Actor
	byRef map[string]*models.Actor
}

// NewInMemory constructs an empty in-memory actor store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[id.ActorID]*models.Actor),
		byRef: make(map[string]*models.Actor),
	}
}

// Save persists an actor. Idempotent on the id.
func (s *InMemory) Save(_ context.Context, a *models.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; ok {
		return nil
	}
	cp := *a
	s.byID[a.ID] = &cp
	s.byRef[a.ExternalRef] = &cp
	return nil
}

// CreateIfAbsent stores the actor unless one already exists for its external
// reference, and returns the canonical row either way.
func (s *InMemory) CreateIfAbsent(_ context.Context, a *models.Actor) (*models.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byRef[a.ExternalRef]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *a
	s.byID[a.ID] = &cp
	s.byRef[a.ExternalRef] = &cp
	out := cp
	return &out, nil
}

// FindByID returns the actor or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, actorID id.ActorID) (*models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[actorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// FindByExternalRef returns the actor or sentinel.ErrNotFound.
func (s *InMemory) FindByExternalRef(_ context.Context, externalRef string) (*models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byRef[externalRef]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}
