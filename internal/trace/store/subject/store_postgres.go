package subject

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

// PostgresStore persists subjects in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subject store.
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

// Save persists a freshly minted subject. Idempotent on the id.
func (s *PostgresStore) Save(ctx context.Context, sub *models.Subject) error {
	query := `
		INSERT INTO subjects (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(sub.ID), sub.Name, sub.CreatedAt); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// SaveAll persists many subjects.
func (s *PostgresStore) SaveAll(ctx context.Context, subjects ...*models.Subject) error {
	for _, sub := range subjects {
		if err := s.Save(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// FindByID returns the subject or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	query := `
		SELECT id, name, created_at
		FROM subjects
		WHERE id = $1
	`
	var (
		rowID uuid.UUID
		sub   models.Subject
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(subjectID)).
		Scan(&rowID, &sub.Name, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subject: %w", err)
	}
	sub.ID = id.SubjectID(rowID)
	return &sub, nil
}
