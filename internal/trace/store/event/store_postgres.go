package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	txcontext "traceability/pkg/platform/tx"
)

// PostgresStore persists events and their fan-out link rows. Create issues
// one insert per row and relies on the caller running it inside a
// transaction (tx.Runner) so the event and all links commit atomically; no
// reader can observe an event with a subset of its links.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Create inserts the event row and one link row per publisher and per actor.
// Link inserts use ON CONFLICT DO NOTHING, keeping links idempotent per
// (event, publisher) and (event, actor) pair. The store-assigned seq is
// written back onto the event.
func (s *PostgresStore) Create(ctx context.Context, e *models.Event) error {
	exec := s.execer(ctx)

	insertEvent := `
		INSERT INTO events (id, name, payload, subject_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	err := exec.QueryRowContext(ctx, insertEvent,
		uuid.UUID(e.ID), e.Name, e.Payload, uuid.UUID(e.SubjectID), e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	insertPublisherLink := `
		INSERT INTO event_publishers (event_id, publisher_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, pid := range e.PublisherIDs {
		if _, err := exec.ExecContext(ctx, insertPublisherLink, uuid.UUID(e.ID), uuid.UUID(pid)); err != nil {
			return fmt.Errorf("insert event publisher link: %w", err)
		}
	}

	insertActorLink := `
		INSERT INTO event_actors (event_id, actor_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, aid := range e.ActorIDs {
		if _, err := exec.ExecContext(ctx, insertActorLink, uuid.UUID(e.ID), uuid.UUID(aid)); err != nil {
			return fmt.Errorf("insert event actor link: %w", err)
		}
	}
	return nil
}

const eventColumns = `
	e.id, e.name, e.payload, e.subject_id, e.created_at, e.seq,
	array_agg(DISTINCT ep.publisher_id::text),
	array_agg(DISTINCT ea.actor_id::text)
`

const eventGrouping = `
	GROUP BY e.id, e.name, e.payload, e.subject_id, e.created_at, e.seq
	ORDER BY e.created_at ASC, e.seq ASC
`

// ListByPublisher returns the events linked to the publisher, ordered by
// (created_at, seq) ascending, with all link ids populated.
func (s *PostgresStore) ListByPublisher(ctx context.Context, publisherID id.PublisherID) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN event_publishers target ON target.event_id = e.id
		LEFT JOIN event_publishers ep ON ep.event_id = e.id
		LEFT JOIN event_actors ea ON ea.event_id = e.id
		WHERE target.publisher_id = $1
	` + eventGrouping

	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(publisherID))
	if err != nil {
		return nil, fmt.Errorf("query events by publisher: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListByActor returns the events linked to the actor, ordered by
// (created_at, seq) ascending.
func (s *PostgresStore) ListByActor(ctx context.Context, actorID id.ActorID) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN event_actors target ON target.event_id = e.id
		LEFT JOIN event_publishers ep ON ep.event_id = e.id
		LEFT JOIN event_actors ea ON ea.event_id = e.id
		WHERE target.actor_id = $1
	` + eventGrouping

	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(actorID))
	if err != nil {
		return nil, fmt.Errorf("query events by actor: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListBySubject returns the events filed under the subject, ordered by
// (created_at, seq) ascending.
func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN event_publishers ep ON ep.event_id = e.id
		LEFT JOIN event_actors ea ON ea.event_id = e.id
		WHERE e.subject_id = $1
	` + eventGrouping

	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("query events by subject: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event

	for rows.Next() {
		var (
			rowID     uuid.UUID
			subjectID uuid.UUID
			e         models.Event
			pubIDs    pq.StringArray
			actIDs    pq.StringArray
		)
		err := rows.Scan(&rowID, &e.Name, &e.Payload, &subjectID, &e.CreatedAt, &e.Seq, &pubIDs, &actIDs)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.ID = id.EventID(rowID)
		e.SubjectID = id.SubjectID(subjectID)
		if e.PublisherIDs, err = parsePublisherIDs(pubIDs); err != nil {
			return nil, err
		}
		if e.ActorIDs, err = parseActorIDs(actIDs); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func parsePublisherIDs(values []string) ([]id.PublisherID, error) {
	out := make([]id.PublisherID, 0, len(values))
	for _, v := range values {
		u, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse publisher link id %q: %w", v, err)
		}
		out = append(out, id.PublisherID(u))
	}
	return out, nil
}

func parseActorIDs(values []string) ([]id.ActorID, error) {
	out := make([]id.ActorID, 0, len(values))
	for _, v := range values {
		u, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse actor link id %q: %w", v, err)
		}
		out = append(out, id.ActorID(u))
	}
	return out, nil
}
