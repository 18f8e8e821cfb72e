// Package domain defines the typed identities shared across the engine.
//
// Each identity is a distinct type wrapping uuid.UUID so the compiler rejects
// cross-type assignment (an EventID can never be passed where a PublisherID is
// expected). Parse functions enforce the trust-boundary invariant that ids are
// valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "traceability/pkg/domain-errors"
)

// PublisherID identifies one entity's notification channel.
type PublisherID uuid.UUID

// SubjectID identifies the topical classification of an action stream.
type SubjectID uuid.UUID

// ActorID identifies whoever or whatever caused an action.
type ActorID uuid.UUID

// EventID identifies one immutable event record.
type EventID uuid.UUID

// NewPublisherID mints a collision-free publisher identity. Minting performs
// no I/O so callers can reference the id before it is persisted.
func NewPublisherID() PublisherID { return PublisherID(uuid.New()) }

// NewSubjectID mints a collision-free subject identity.
func NewSubjectID() SubjectID { return SubjectID(uuid.New()) }

// NewActorID mints a collision-free actor identity.
func NewActorID() ActorID { return ActorID(uuid.New()) }

// NewEventID mints a collision-free event identity.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id PublisherID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) String() string   { return uuid.UUID(id).String() }
func (id ActorID) String() string     { return uuid.UUID(id).String() }
func (id EventID) String() string     { return uuid.UUID(id).String() }

func (id PublisherID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// ParsePublisherID parses and validates a publisher id from its string form.
func ParsePublisherID(s string) (PublisherID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PublisherID{}, err
	}
	return PublisherID(u), nil
}

// ParseSubjectID parses and validates a subject id from its string form.
func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return SubjectID{}, err
	}
	return SubjectID(u), nil
}

// ParseActorID parses and validates an actor id from its string form.
func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ActorID{}, err
	}
	return ActorID(u), nil
}

// ParseEventID parses and validates an event id from its string form.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return EventID{}, err
	}
	return EventID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
