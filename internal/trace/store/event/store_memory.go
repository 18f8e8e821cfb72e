package event

import (
	"context"
	"sort"
	"sync"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
)

// InMemory keeps events and their fan-out indexes under one mutex, so an
// event and all its links become visible atomically, mirroring the
// transactional write of the postgres store.
type InMemory struct {
	mu          sync.RWMutex
	events      []*models.Event
	byPublisher map[id.PublisherID][]*models.Event
	byActor     map[id.ActorID][]*models.Event
	bySubject   map[id.SubjectID][]*models.Event
	nextSeq     int64
}

// NewInMemory constructs an empty in-memory event store.
func NewInMemory() *InMemory {
	return &InMemory{
		byPublisher: make(map[id.PublisherID][]*models.Event),
		byActor:     make(map[id.ActorID][]*models.Event),
		bySubject:   make(map[id.SubjectID][]*models.Event),
	}
}

// Create appends the event and indexes it under every linked publisher and
// actor. Assigns the insertion-order Seq. Link sets are deduplicated so an
// event is indexed at most once per publisher and per actor.
func (s *InMemory) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	e.Seq = s.nextSeq
	e.PublisherIDs = dedupePublishers(e.PublisherIDs)
	e.ActorIDs = dedupeActors(e.ActorIDs)

	stored := cloneEvent(e)
	s.events = append(s.events, stored)
	for _, pid := range stored.PublisherIDs {
		s.byPublisher[pid] = append(s.byPublisher[pid], stored)
	}
	for _, aid := range stored.ActorIDs {
		s.byActor[aid] = append(s.byActor[aid], stored)
	}
	s.bySubject[stored.SubjectID] = append(s.bySubject[stored.SubjectID], stored)
	return nil
}

// ListByPublisher returns the events linked to the publisher, ordered by
// (created_at, seq) ascending.
func (s *InMemory) ListByPublisher(_ context.Context, publisherID id.PublisherID) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedCopies(s.byPublisher[publisherID]), nil
}

// ListByActor returns the events linked to the actor, ordered by
// (created_at, seq) ascending.
func (s *InMemory) ListByActor(_ context.Context, actorID id.ActorID) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedCopies(s.byActor[actorID]), nil
}

// ListBySubject returns the events filed under the subject, ordered by
// (created_at, seq) ascending.
func (s *InMemory) ListBySubject(_ context.Context, subjectID id.SubjectID) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedCopies(s.bySubject[subjectID]), nil
}

func sortedCopies(events []*models.Event) []*models.Event {
	out := make([]*models.Event, 0, len(events))
	for _, e := range events {
		out = append(out, cloneEvent(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func cloneEvent(e *models.Event) *models.Event {
	cp := *e
	cp.PublisherIDs = append([]id.PublisherID(nil), e.PublisherIDs...)
	cp.ActorIDs = append([]id.ActorID(nil), e.ActorIDs...)
	cp.Subject = nil
	cp.Publishers = nil
	cp.Actors = nil
	return &cp
}

func dedupePublishers(ids []id.PublisherID) []id.PublisherID {
	seen := make(map[id.PublisherID]struct{}, len(ids))
	out := ids[:0]
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupeActors(ids []id.ActorID) []id.ActorID {
	seen := make(map[id.ActorID]struct{}, len(ids))
	out := ids[:0]
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
