package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXManager_Begin(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name        string
		prepareMock func(mock pgxmock.PgxPoolIface)
		fn          func(db Database) TransactionalFn
		wantErr     error
	}{
		{
			name: "Commits on success",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET balance = $1 WHERE id = $2`)).
					WithArgs(100, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
			fn: func(db Database) TransactionalFn {
				return func(ctx context.Context) error {
					_, err := db.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`, 100, 1)
					return err
				}
			},
		},
		{
			name: "Rolls back when fn fails",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(Database) TransactionalFn {
				return func(context.Context) error { return errBoom }
			},
			wantErr: errBoom,
		},
		{
			name: "Begin failure",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errBoom)
			},
			fn: func(Database) TransactionalFn {
				return func(context.Context) error { return nil }
			},
			wantErr: errBoom,
		},
		{
			name: "Commit failure",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errBoom)
			},
			fn: func(Database) TransactionalFn {
				return func(context.Context) error { return nil }
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.prepareMock(mock)
			m := NewTXManager(mock, time.Second)

			err = m.Begin(context.Background(), tt.fn(New(mock)))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTXManager_BeginNested(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTXManager(mock, 0)
	calls := 0
	err = m.Begin(context.Background(), func(ctx context.Context) error {
		outer, ok := TxFromContext(ctx)
		require.True(t, ok)
		return m.Begin(ctx, func(ctx context.Context) error {
			calls++
			inner, _ := TxFromContext(ctx)
			assert.Equal(t, outer, inner)
			return nil
		})
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTXManager_BeginIgnoresCallerCancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx, cancel := context.WithCancel(context.Background())
	m := NewTXManager(mock, time.Second)
	err = m.Begin(ctx, func(ctx context.Context) error {
		cancel()
		assert.NoError(t, ctx.Err())
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTXManager_BeginPanics(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	m := NewTXManager(mock, 0)
	assert.Panics(t, func() {
		_ = m.Begin(context.Background(), func(context.Context) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireTx(t *testing.T) {
	assert.ErrorIs(t, RequireTx(context.Background()), ErrNoTx)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, RequireTx(WithTx(context.Background(), tx)))
}
