package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lubetrack/internal/advisor"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore/memory"
	"github.com/vbonduro/lubetrack/internal/metrics"
	"github.com/vbonduro/lubetrack/internal/store"
)

var testNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// flakyKV has no SetMany, so commits go through the sequential path, and it
// rejects writes to failKey.
type flakyKV struct {
	inner   *memory.MemoryStore
	mu      sync.Mutex
	failKey string
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return f.inner.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := key == f.failKey
	f.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return f.inner.Set(ctx, key, value)
}

func (f *flakyKV) failOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKey = key
}

type fixture struct {
	*Services
	kv    *flakyKV
	clock *fakeClock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture builds services over empty collections, so no demonstration
// data is seeded.
func newFixture(t *testing.T, adv advisor.Advisor) *fixture {
	t.Helper()
	ctx := context.Background()

	kv := &flakyKV{inner: memory.NewMemoryStore()}
	for _, key := range []string{
		store.KeyEquipment, store.KeyRecords, store.KeyInventory,
		store.KeyTransactions, store.KeySOPCategories, store.KeySOPDocuments,
	} {
		require.NoError(t, kv.Set(ctx, key, []byte("[]")))
	}

	clock := &fakeClock{t: testNow}
	seq := 0
	var seqMu sync.Mutex
	newID := func() string {
		seqMu.Lock()
		defer seqMu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	logger := discardLogger()
	st := store.New(kv, clock.Now, logger)
	svc := New(st, Options{
		Advisor: adv,
		Metrics: metrics.New(),
		Logger:  logger,
		Now:     clock.Now,
		NewID:   newID,
	})
	return &fixture{Services: svc, kv: kv, clock: clock}
}

func date(s string) domain.Date {
	return domain.MustParseDate(s)
}

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func (f *fixture) addEquipment(t *testing.T, name string, cycleDays int, last string) *domain.Equipment {
	t.Helper()
	e, err := f.Equipment.Create(context.Background(), EquipmentInput{
		Name:           name,
		Type:           "Motor",
		Location:       "Line A",
		Lubricant:      "EP2",
		CycleDays:      cycleDays,
		LastLubricated: date(last),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) addItem(t *testing.T, name string, stock float64) *domain.InventoryItem {
	t.Helper()
	it, err := f.Inventory.CreateItem(context.Background(), ItemInput{
		Name:         name,
		Type:         "Grease",
		Stock:        stock,
		Unit:         "kg",
		MinThreshold: 5,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) stockOf(t *testing.T, id string) float64 {
	t.Helper()
	it, err := f.Inventory.GetItem(context.Background(), id)
	require.NoError(t, err)
	return it.Stock
}
