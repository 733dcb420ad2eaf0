package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSessions(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE sessions (user_id TEXT NOT NULL, token TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	return db
}

func sessionCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	return n
}

func insertSession(ctx context.Context, tx DBTX, token string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sessions (user_id, token) VALUES ('u-1', ?)`, token)
	return err
}

func TestWithTx(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx DBTX) error
		wantErr   error
		wantCount int
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertSession(ctx, tx, "a"); err != nil {
					return err
				}
				return insertSession(ctx, tx, "b")
			},
			wantCount: 2,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertSession(ctx, tx, "a"); err != nil {
					return err
				}
				return errBoom
			},
			wantErr: errBoom,
		},
		{
			name: "rollback on failed statement",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertSession(ctx, tx, "a"); err != nil {
					return err
				}
				return insertSession(ctx, tx, "a")
			},
			wantErr: errors.New("any"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openSessions(t)

			err := WithTx(context.Background(), db, nil, tt.fn)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case tt.wantErr == errBoom:
				require.ErrorIs(t, err, errBoom)
			default:
				require.Error(t, err)
			}
			assert.Equal(t, tt.wantCount, sessionCount(t, db))
		})
	}
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openSessions(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insertSession(ctx, tx, "a"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, sessionCount(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openSessions(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return insertSession(ctx, tx, "a")
	})
	assert.EqualError(t, err, "serialization failure")
	assert.NoError(t, mock.ExpectationsWereMet())
}
