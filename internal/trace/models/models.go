// Package models defines the persistent records of the traceability engine:
// the three identity kinds (Publisher, Subject, Actor) and the immutable
// Event with its fan-out references.
package models

import (
	"strings"
	"time"

	id "traceability/pkg/domain"
	dErrors "traceability/pkg/domain-errors"
)

// Publisher is one entity's permanent notification channel.
//
// Invariants:
//   - owned 1:1 by a domain entity, assigned at entity-creation time
//   - never mutated, never deleted, never reused for a different entity
//
// Tag is a diagnostic label given at mint time. It is stored for operability
// only and never used for lookup.
type Publisher struct {
	ID        id.PublisherID `json:"id"`
	Tag       string         `json:"tag,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewPublisher mints a publisher identity. No I/O: the id is usable as a
// foreign key before the publisher is saved.
func NewPublisher(tag string, now time.Time) *Publisher {
	return &Publisher{
		ID:        id.NewPublisherID(),
		Tag:       strings.TrimSpace(tag),
		CreatedAt: now,
	}
}

// Subject is the topical classification identity an event is filed under.
// Several publishers may emit events sharing one subject kind, but typically
// each entity also owns exactly one subject for its lifecycle events.
type Subject struct {
	ID        id.SubjectID `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewSubject mints a subject identity with its category tag, e.g.
// "COURSE_SUBJECT". No I/O.
func NewSubject(name string, now time.Time) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "subject name cannot be empty")
	}
	return &Subject{
		ID:        id.NewSubjectID(),
		Name:      name,
		CreatedAt: now,
	}, nil
}

// Actor is the identity of whoever or whatever caused an action: a user, a
// membership record, a service. Resolved from an external reference and
// created lazily on first use.
type Actor struct {
	ID          id.ActorID `json:"id"`
	ExternalRef string     `json:"external_ref"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewActor mints an actor identity for an external reference.
func NewActor(externalRef string, now time.Time) (*Actor, error) {
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "actor external_ref cannot be empty")
	}
	return &Actor{
		ID:          id.NewActorID(),
		ExternalRef: externalRef,
		CreatedAt:   now,
	}, nil
}

// Event is an immutable record of one domain action. No field is ever
// updated after creation; compensations are new events, not mutations.
//
// Invariants:
//   - at least one publisher link and one actor link, written atomically
//     with the event row
//   - Payload is write-once and opaque to the engine
//   - events for one subject are totally ordered by (CreatedAt, Seq)
type Event struct {
	ID        id.EventID   `json:"id"`
	Name      string       `json:"name"`
	Payload   string       `json:"payload"`
	SubjectID id.SubjectID `json:"subject_id"`
	CreatedAt time.Time    `json:"created_at"`
	// Seq is the store-assigned insertion order, the tiebreak for events
	// sharing a timestamp.
	Seq int64 `json:"seq"`

	// Fan-out links, deduplicated before persistence.
	PublisherIDs []id.PublisherID `json:"publisher_ids"`
	ActorIDs     []id.ActorID     `json:"actor_ids"`

	// Resolved references, populated by the emitter on return.
	Subject    *Subject     `json:"-"`
	Publishers []*Publisher `json:"-"`
	Actors     []*Actor     `json:"-"`
}

// HasPublisher reports whether the event is linked to the publisher.
func (e *Event) HasPublisher(publisherID id.PublisherID) bool {
	for _, pid := range e.PublisherIDs {
		if pid == publisherID {
			return true
		}
	}
	return false
}

// HasActor reports whether the event is linked to the actor.
func (e *Event) HasActor(actorID id.ActorID) bool {
	for _, aid := range e.ActorIDs {
		if aid == actorID {
			return true
		}
	}
	return false
}

// HasName reports whether the event carries the given name.
func (e *Event) HasName(name string) bool {
	return e.Name == name
}
