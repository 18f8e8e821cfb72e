package actor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"traceability/internal/trace/models"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/sentinel"
	txcontext "traceability/pkg/platform/tx"
)

// PostgresStore persists actors in PostgreSQL. The unique constraint on
// external_ref is what makes concurrent first-use of the same reference
// converge on a single row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed actor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Save persists an actor. Idempotent on the id.
func (s *PostgresStore) Save(ctx context.Context, a *models.Actor) error {
	query := `
		INSERT INTO actors (id, external_ref, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(a.ID), a.ExternalRef, a.CreatedAt); err != nil {
		return fmt.Errorf("insert actor: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the actor unless its external reference is already
// taken, then returns the canonical row. Two concurrent first-uses both land
// here; the constraint picks one winner and the follow-up select observes it.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, a *models.Actor) (*models.Actor, error) {
	insert := `
		INSERT INTO actors (id, external_ref, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_ref) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, insert, uuid.UUID(a.ID), a.ExternalRef, a.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	return s.FindByExternalRef(ctx, a.ExternalRef)
}

// FindByID returns the actor or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, actorID id.ActorID) (*models.Actor, error) {
	query := `
		SELECT id, external_ref, created_at
		FROM actors
		WHERE id = $1
	`
	return s.scanActor(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(actorID)))
}

// FindByExternalRef returns the actor or sentinel.ErrNotFound.
func (s *PostgresStore) FindByExternalRef(ctx context.Context, externalRef string) (*models.Actor, error) {
	query := `
		SELECT id, external_ref, created_at
		FROM actors
		WHERE external_ref = $1
	`
	return s.scanActor(s.execer(ctx).QueryRowContext(ctx, query, externalRef))
}

func (s *PostgresStore) scanActor(row *sql.Row) (*models.Actor, error) {
	var (
		rowID uuid.UUID
		a     models.Actor
	)
	err := row.Scan(&rowID, &a.ExternalRef, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query actor: %w", err)
	}
	a.ID = id.ActorID(rowID)
	return &a, nil
}
