package publisher

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

// PostgresStore persists publishers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed publisher store.
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

// Save persists a freshly minted publisher. Identity saves are idempotent:
// a publisher referenced by several child records may be saved more than
// once before the surrounding aggregate flush completes.
func (s *PostgresStore) Save(ctx context.Context, p *models.Publisher) error {
	query := `
		INSERT INTO publishers (id, tag, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(p.ID), p.Tag, p.CreatedAt); err != nil {
		return fmt.Errorf("insert publisher: %w", err)
	}
	return nil
}

// SaveAll persists many publishers.
func (s *PostgresStore) SaveAll(ctx context.Context, publishers ...*models.Publisher) error {
	for _, p := range publishers {
		if err := s.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// FindByID returns the publisher or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, publisherID id.PublisherID) (*models.Publisher, error) {
	query := `
		SELECT id, tag, created_at
		FROM publishers
		WHERE id = $1
	`
	var (
		rowID uuid.UUID
		p     models.Publisher
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(publisherID)).
		Scan(&rowID, &p.Tag, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query publisher: %w", err)
	}
	p.ID = id.PublisherID(rowID)
	return &p, nil
}
