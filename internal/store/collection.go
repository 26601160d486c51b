package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore"
)

// Collection is a typed view of one key of the keyed store. The whole slice
// is read and written at once.
type Collection[T any] struct {
	kv   kvstore.Store
	key  string
	seed func(today domain.Date) []T
	now  func() time.Time
}

func newCollection[T any](kv kvstore.Store, key string, now func() time.Time, seed func(domain.Date) []T) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, seed: seed, now: now}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored slice. When the key has never been written, the
// demonstration data for it is persisted first and returned.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", c.key, domain.ErrStorage, err)
	}
	if !ok {
		return c.seedKey(ctx)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w: %w", c.key, domain.ErrStorage, err)
	}
	return items, nil
}

func (c *Collection[T]) seedKey(ctx context.Context) ([]T, error) {
	var items []T
	if c.seed != nil {
		items = c.seed(domain.DateOf(c.now()))
	}
	entry, err := c.Stage(items)
	if err != nil {
		return nil, err
	}
	if err := c.kv.Set(ctx, entry.Key, entry.Value); err != nil {
		return nil, fmt.Errorf("failed to seed %s: %w: %w", c.key, domain.ErrStorage, err)
	}
	return items, nil
}

// Stage encodes items for a later Commit without writing anything.
func (c *Collection[T]) Stage(items []T) (kvstore.Entry, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return kvstore.Entry{}, fmt.Errorf("failed to encode %s: %w: %w", c.key, domain.ErrStorage, err)
	}
	return kvstore.Entry{Key: c.key, Value: data}, nil
}
