package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newPG(t *testing.T, cfg Config) (*PG, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPG(mock, cfg), mock
}

func TestPG_Allow(t *testing.T) {
	ip := HashIP("1.2.3.4")

	t.Run("no row", func(t *testing.T) {
		l, mock := newPG(t, DefaultConfig)
		mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
			WithArgs("alice", ip).
			WillReturnError(pgx.ErrNoRows)

		ok, wait, err := l.Allow(context.Background(), "alice", ip)
		require.NoError(t, err)
		require.True(t, ok)
		require.Zero(t, wait)
	})

	t.Run("blocked", func(t *testing.T) {
		l, mock := newPG(t, DefaultConfig)
		mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
			WithArgs("alice", ip).
			WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(time.Now().Add(10 * time.Minute)))

		ok, wait, err := l.Allow(context.Background(), "alice", ip)
		require.NoError(t, err)
		require.False(t, ok)
		require.Greater(t, wait, time.Duration(0))
	})

	t.Run("block expired", func(t *testing.T) {
		l, mock := newPG(t, DefaultConfig)
		mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
			WithArgs("alice", ip).
			WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(time.Now().Add(-time.Minute)))

		ok, _, err := l.Allow(context.Background(), "alice", ip)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("db error", func(t *testing.T) {
		l, mock := newPG(t, DefaultConfig)
		mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
			WithArgs("alice", ip).
			WillReturnError(errors.New("db boom"))

		ok, _, err := l.Allow(context.Background(), "alice", ip)
		require.Error(t, err)
		require.False(t, ok)
	})
}

func TestPG_Success(t *testing.T) {
	ip := HashIP("1.2.3.4")
	l, mock := newPG(t, DefaultConfig)
	mock.ExpectExec(`INSERT INTO auth_limiter`).
		WithArgs("alice", ip).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, l.Success(context.Background(), "alice", ip))
}

func TestPG_Failure(t *testing.T) {
	ip := HashIP("1.2.3.4")
	cfg := Config{Window: 5 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute}

	t.Run("under threshold", func(t *testing.T) {
		l, mock := newPG(t, cfg)
		mock.ExpectQuery(`RETURNING fail_count`).
			WithArgs("alice", ip, cfg.Window).
			WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))

		blocked, wait, err := l.Failure(context.Background(), "alice", ip)
		require.NoError(t, err)
		require.False(t, blocked)
		require.Zero(t, wait)
	})

	t.Run("at threshold", func(t *testing.T) {
		l, mock := newPG(t, cfg)
		mock.ExpectQuery(`RETURNING fail_count`).
			WithArgs("alice", ip, cfg.Window).
			WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(3))
		mock.ExpectExec(`UPDATE auth_limiter SET blocked_until`).
			WithArgs("alice", ip, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		blocked, wait, err := l.Failure(context.Background(), "alice", ip)
		require.NoError(t, err)
		require.True(t, blocked)
		require.Equal(t, cfg.BlockFor, wait)
	})

	t.Run("query error", func(t *testing.T) {
		l, mock := newPG(t, cfg)
		mock.ExpectQuery(`RETURNING fail_count`).
			WithArgs("alice", ip, cfg.Window).
			WillReturnError(errors.New("boom"))

		_, _, err := l.Failure(context.Background(), "alice", ip)
		require.Error(t, err)
	})
}

func TestHashIP(t *testing.T) {
	a := HashIP("1.2.3.4:123")
	require.Len(t, a, 32)
	require.Equal(t, a, HashIP("1.2.3.4:123"))
	require.NotEqual(t, a, HashIP("5.6.7.8:321"))
}
