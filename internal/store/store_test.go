package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lubetrack/internal/db"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore"
	"github.com/vbonduro/lubetrack/internal/kvstore/memory"
	"github.com/vbonduro/lubetrack/internal/kvstore/sqlite"
)

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// plainKV hides SetMany so Commit takes the sequential path, and can be told
// to fail writes to one key.
type plainKV struct {
	inner   *memory.MemoryStore
	failKey string
	sets    int
}

func (p *plainKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, key)
}

func (p *plainKV) Set(ctx context.Context, key string, value []byte) error {
	if key == p.failKey {
		return errors.New("disk full")
	}
	p.sets++
	return p.inner.Set(ctx, key, value)
}

type failingBatchKV struct {
	*memory.MemoryStore
}

func (f failingBatchKV) SetMany(context.Context, []kvstore.Entry) error {
	return errors.New("database is locked")
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}

func (brokenKV) Set(context.Context, string, []byte) error {
	return errors.New("connection reset")
}

func TestLoadSeedsAbsentKeyOnce(t *testing.T) {
	kv := memory.NewMemoryStore()
	s := New(kv, clock, discardLogger())
	ctx := context.Background()

	equipment, err := s.Equipment.Load(ctx)
	require.NoError(t, err)
	require.Len(t, equipment, 3)
	assert.Equal(t, 1, kv.Keys())

	today := domain.DateOf(fixedNow)
	assert.Equal(t, today.AddDays(2), equipment[1].NextLubricated)
	assert.Equal(t, today.AddDays(180), equipment[2].NextLubricated)

	equipment[0].Name = "Renamed"
	entry, err := s.Equipment.Stage(equipment[:1])
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, entry))

	again, err := s.Equipment.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Renamed", again[0].Name)
}

func TestLoadSeedsEachKeyIndependently(t *testing.T) {
	kv := memory.NewMemoryStore()
	s := New(kv, clock, discardLogger())
	ctx := context.Background()

	items, err := s.Inventory.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	txs, err := s.Transactions.Load(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxOut, txs[0].Type)
	assert.Equal(t, "1", txs[0].InventoryID)

	docs, err := s.SOPDocuments.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	assert.Equal(t, 3, kv.Keys())
}

func TestLoadEmptyCollectionIsNotReseeded(t *testing.T) {
	kv := memory.NewMemoryStore()
	s := New(kv, clock, discardLogger())
	ctx := context.Background()

	entry, err := s.Records.Stage(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(entry.Value))
	require.NoError(t, s.Commit(ctx, entry))

	records, err := s.Records.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadCorruptValue(t *testing.T) {
	kv := memory.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), KeyInventory, []byte("{not json")))
	s := New(kv, clock, discardLogger())

	_, err := s.Inventory.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestLoadBackendFailure(t *testing.T) {
	s := New(brokenKV{}, clock, discardLogger())

	_, err := s.Equipment.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestCommitSequentialRestoresOnFailure(t *testing.T) {
	inner := memory.NewMemoryStore()
	kv := &plainKV{inner: inner}
	s := New(kv, clock, discardLogger())
	ctx := context.Background()

	items, err := s.Inventory.Load(ctx)
	require.NoError(t, err)
	txs, err := s.Transactions.Load(ctx)
	require.NoError(t, err)

	items[0].Stock = 0
	itemEntry, err := s.Inventory.Stage(items)
	require.NoError(t, err)
	txEntry, err := s.Transactions.Stage(nil)
	require.NoError(t, err)

	kv.failKey = KeyTransactions
	err = s.Commit(ctx, itemEntry, txEntry)
	assert.ErrorIs(t, err, domain.ErrStorage)

	kv.failKey = ""
	reloaded, err := s.Inventory.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.5, reloaded[0].Stock)

	reloadedTxs, err := s.Transactions.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloadedTxs, len(txs))
	assert.Equal(t, txs[0].ID, reloadedTxs[0].ID)
}

func TestCommitBatchFailureWritesNothing(t *testing.T) {
	kv := failingBatchKV{memory.NewMemoryStore()}
	s := New(kv, clock, discardLogger())
	ctx := context.Background()

	items, err := s.Inventory.Load(ctx)
	require.NoError(t, err)
	items[0].Stock = 1
	entry, err := s.Inventory.Stage(items)
	require.NoError(t, err)

	err = s.Commit(ctx, entry)
	assert.ErrorIs(t, err, domain.ErrStorage)

	reloaded, err := s.Inventory.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.5, reloaded[0].Stock)
}

func TestCommitNoEntries(t *testing.T) {
	kv := &plainKV{inner: memory.NewMemoryStore()}
	s := New(kv, clock, discardLogger())

	require.NoError(t, s.Commit(context.Background()))
	assert.Zero(t, kv.sets)
}

func TestStoreOverSQLite(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	s := New(sqlite.NewSQLiteStore(d), clock, discardLogger())
	ctx := context.Background()

	cats, err := s.SOPCategories.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)

	cats = append(cats, domain.SOPCategory{ID: "c4", Name: "Audits"})
	catEntry, err := s.SOPCategories.Stage(cats)
	require.NoError(t, err)
	docEntry, err := s.SOPDocuments.Stage(nil)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, catEntry, docEntry))

	reloaded, err := s.SOPCategories.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, 4)

	docs, err := s.SOPDocuments.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
