package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore"
)

const (
	KeyEquipment     = "lubetrack_equipment"
	KeyRecords       = "lubetrack_records"
	KeyInventory     = "lubetrack_inventory"
	KeyTransactions  = "lubetrack_transactions"
	KeySOPCategories = "lubetrack_sop_categories"
	KeySOPDocuments  = "lubetrack_sop_documents"
)

type Store struct {
	kv     kvstore.Store
	logger *slog.Logger

	Equipment     *Collection[domain.Equipment]
	Records       *Collection[domain.ServiceRecord]
	Inventory     *Collection[domain.InventoryItem]
	Transactions  *Collection[domain.StockTransaction]
	SOPCategories *Collection[domain.SOPCategory]
	SOPDocuments  *Collection[domain.SOPDocument]
}

// New binds the six collections to kv. now is used for the seeding day and
// for the timestamps of seeded transactions.
func New(kv kvstore.Store, now func() time.Time, logger *slog.Logger) *Store {
	return &Store{
		kv:            kv,
		logger:        logger,
		Equipment:     newCollection(kv, KeyEquipment, now, seedEquipment),
		Records:       newCollection(kv, KeyRecords, now, seedRecords),
		Inventory:     newCollection(kv, KeyInventory, now, seedInventory),
		Transactions:  newCollection(kv, KeyTransactions, now, seedTransactions(now)),
		SOPCategories: newCollection(kv, KeySOPCategories, now, seedSOPCategories),
		SOPDocuments:  newCollection(kv, KeySOPDocuments, now, seedSOPDocuments),
	}
}

// Commit writes staged entries as one unit. A kvstore.BatchStore does this
// natively. Otherwise entries are written in order and, when one fails, the
// ones already written are put back to their previous values.
func (s *Store) Commit(ctx context.Context, entries ...kvstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if batch, ok := s.kv.(kvstore.BatchStore); ok {
		if err := batch.SetMany(ctx, entries); err != nil {
			return fmt.Errorf("failed to commit: %w: %w", domain.ErrStorage, err)
		}
		return nil
	}

	previous := make([]kvstore.Entry, 0, len(entries))
	for _, e := range entries {
		old, ok, err := s.kv.Get(ctx, e.Key)
		if err != nil {
			return fmt.Errorf("failed to read %s before commit: %w: %w", e.Key, domain.ErrStorage, err)
		}
		if !ok {
			old = nil
		}
		previous = append(previous, kvstore.Entry{Key: e.Key, Value: old})
	}

	for i, e := range entries {
		if err := s.kv.Set(ctx, e.Key, e.Value); err != nil {
			s.restore(ctx, previous[:i])
			return fmt.Errorf("failed to commit %s: %w: %w", e.Key, domain.ErrStorage, err)
		}
	}
	return nil
}

func (s *Store) restore(ctx context.Context, written []kvstore.Entry) {
	for _, e := range written {
		if e.Value == nil {
			s.logger.Error("cannot restore collection that did not exist before commit", "key", e.Key)
			continue
		}
		if err := s.kv.Set(ctx, e.Key, e.Value); err != nil {
			s.logger.Error("failed to restore collection after partial commit", "key", e.Key, "error", err)
		}
	}
}
