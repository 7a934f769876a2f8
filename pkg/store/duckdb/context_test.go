package duckdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionContext(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	assert.Nil(t, GetTransaction(context.Background()))

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ctx := WithTransaction(context.Background(), tx)
	assert.Same(t, tx, GetTransaction(ctx))
}

func TestInTransaction(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	insert := func(id string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			tx := GetTransaction(ctx)
			require.NotNil(t, tx)
			_, err := tx.ExecContext(ctx,
				`INSERT INTO analyses (id, source, mode, payload) VALUES (?, 'f.csv', 'summary', '{}')`, id)
			return err
		}
	}
	count := func() int {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		require.NoError(t, InTransaction(context.Background(), db, insert("a-1")))
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := InTransaction(context.Background(), db, func(ctx context.Context) error {
			if err := insert("a-2")(ctx); err != nil {
				return err
			}
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})
}
