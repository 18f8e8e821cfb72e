package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestSQLRunner_CommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	runner := NewSQLRunner(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
		sqlTx, ok := From(ctx)
		require.True(t, ok, "fn context must carry the transaction")
		_, err := sqlTx.ExecContext(ctx, "INSERT INTO events (id) VALUES ($1)", "e1")
		return err
	})
	require.NoError(t, err)
}

func TestSQLRunner_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	runner := NewSQLRunner(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("link insert failed")
	err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestSQLRunner_JoinsExistingTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	runner := NewSQLRunner(db)

	// The outer owner begins and commits; the nested run must not.
	mock.ExpectBegin()
	mock.ExpectCommit()

	sqlTx, err := db.Begin()
	require.NoError(t, err)

	called := false
	err = runner.RunInTx(WithTx(context.Background(), sqlTx), func(ctx context.Context) error {
		called = true
		carried, ok := From(ctx)
		assert.True(t, ok)
		assert.Same(t, sqlTx, carried)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	require.NoError(t, sqlTx.Commit())
}

func TestPassthroughRunner_RunsInline(t *testing.T) {
	called := false
	err := PassthroughRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
