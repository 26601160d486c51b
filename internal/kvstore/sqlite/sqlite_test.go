package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lubetrack/internal/db"
	"github.com/vbonduro/lubetrack/internal/kvstore"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSQLiteStoreGetAbsent(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))

	v, ok, err := s.Get(context.Background(), "lubetrack_equipment")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSQLiteStoreSetGet(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "lubetrack_equipment", []byte(`[{"id":"1"}]`)))

	v, ok, err := s.Get(ctx, "lubetrack_equipment")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(v))
}

func TestSQLiteStoreSetOverwrites(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "k", []byte(`[1]`)))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))
}

func TestSQLiteStoreSetMany(t *testing.T) {
	d := openTestDB(t)
	s := NewSQLiteStore(d)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte(`old`)))
	err := s.SetMany(ctx, []kvstore.Entry{
		{Key: "a", Value: []byte(`new-a`)},
		{Key: "b", Value: []byte(`new-b`)},
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM collections`).Scan(&n))
	assert.Equal(t, 2, n)

	v, _, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-a", string(v))
}

func TestSQLiteStoreSetManyRollsBackOnCancel(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", []byte(`old`)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err := s.SetMany(cancelled, []kvstore.Entry{{Key: "a", Value: []byte(`new`)}})
	assert.Error(t, err)

	v, _, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "old", string(v))
}
