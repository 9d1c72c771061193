package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mydrive/internal/dbx"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT 0
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	at := time.UnixMilli(1_700_000_000_123)

	require.NoError(t, r.Set(ctx, "authSession", []byte(`{"user":{}}`), at))

	e, err := r.Get(ctx, "authSession")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "authSession", e.Key)
	assert.Equal(t, []byte(`{"user":{}}`), e.Value)
	assert.True(t, at.Equal(e.UpdatedAt))
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	e, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestSet_UpsertOverwritesValueAndTime(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old"), time.UnixMilli(1)))
	require.NoError(t, r.Set(ctx, "k", []byte("new"), time.UnixMilli(2)))

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), e.Value)
	assert.Equal(t, int64(2), e.UpdatedAt.UnixMilli())
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil, time.UnixMilli(1)))

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Empty(t, e.Value)
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{0x01}, time.Now()))
	require.NoError(t, r.Delete(ctx, "x"))

	e, err := r.Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, e)

	require.NoError(t, r.Delete(ctx, "x"))
}

func TestWithTx_RollbackDiscardsWrites(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Set(ctx, "k", []byte("v"), time.Now()))
		return errors.New("abort")
	})
	require.Error(t, err)

	e, err := NewSQLiteRepository(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"), time.Now())
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k]")
}
