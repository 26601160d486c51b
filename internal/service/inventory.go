package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore"
)

// stockEpsilon is the smallest net adjustment written back to stock when a
// transaction is edited.
const stockEpsilon = 1e-3

// stockPlaces is the number of decimal places kept on running stock totals.
const stockPlaces = 2

type ItemInput struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Stock        float64 `json:"stock"`
	Unit         string  `json:"unit"`
	MinThreshold float64 `json:"minThreshold"`
}

func (in ItemInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case !finite(in.Stock) || !finite(in.MinThreshold):
		return fmt.Errorf("%w: stock and threshold must be numbers", domain.ErrInvalidInput)
	}
	return nil
}

// InventoryLedger owns lubricant items and the stock transaction journal.
// Every journal change is reflected in the referenced item's stock by its
// signed effect, so stock stays equal to its baseline plus the live journal.
type InventoryLedger struct {
	*ledger
	items        collection[domain.InventoryItem]
	transactions collection[domain.StockTransaction]
}

func idOfItem(i domain.InventoryItem) string { return i.ID }
func idOfTransaction(t domain.StockTransaction) string { return t.ID }

// ListItems filters items by name or type.
func (l *InventoryLedger) ListItems(ctx context.Context, query string) ([]domain.InventoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.items.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("list_items", err)
	}
	out := make([]domain.InventoryItem, 0, len(all))
	for _, it := range all {
		if matches(query, it.Name, it.Type) {
			out = append(out, it)
		}
	}
	return out, nil
}

// LowStock lists items at or below their threshold.
func (l *InventoryLedger) LowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	all, err := l.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}
	out := []domain.InventoryItem{}
	for _, it := range all {
		if it.LowStock() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *InventoryLedger) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.items.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("get_item", err)
	}
	i := indexByID(all, id, idOfItem)
	if i < 0 {
		return nil, fmt.Errorf("get item %s: %w", id, domain.ErrItemNotFound)
	}
	return &all[i], nil
}

func (l *InventoryLedger) CreateItem(ctx context.Context, in ItemInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.items.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_item", err)
	}
	it := domain.InventoryItem{ID: l.newID()}
	applyItemInput(&it, in)
	all = append(all, it)

	if err := l.saveItems(ctx, "create_item", all); err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateItem replaces the item's fields, stock included. A manual stock edit
// becomes the new baseline for later journal entries.
func (l *InventoryLedger) UpdateItem(ctx context.Context, id string, in ItemInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.items.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_item", err)
	}
	i := indexByID(all, id, idOfItem)
	if i < 0 {
		return nil, fmt.Errorf("update item %s: %w", id, domain.ErrItemNotFound)
	}
	applyItemInput(&all[i], in)

	if err := l.saveItems(ctx, "update_item", all); err != nil {
		return nil, err
	}
	updated := all[i]
	return &updated, nil
}

// DeleteItem removes the item and keeps its transactions for audit.
func (l *InventoryLedger) DeleteItem(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.items.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_item", err)
	}
	i := indexByID(all, id, idOfItem)
	if i < 0 {
		return fmt.Errorf("delete item %s: %w", id, domain.ErrItemNotFound)
	}
	all = slices.Delete(all, i, i+1)

	return l.saveItems(ctx, "delete_item", all)
}

// ApplyTransaction books an inbound or outbound movement against an item.
func (l *InventoryLedger) ApplyTransaction(ctx context.Context, itemID string, typ domain.TxType, amount float64, user string) (*domain.StockTransaction, error) {
	if err := validateMovement(typ, amount); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.items.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("apply_transaction", err)
	}
	i := indexByID(items, itemID, idOfItem)
	if i < 0 {
		return nil, fmt.Errorf("apply transaction to %s: %w", itemID, domain.ErrItemNotFound)
	}
	txs, err := l.transactions.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("apply_transaction", err)
	}

	tx := domain.StockTransaction{
		ID:            l.newID(),
		InventoryID:   items[i].ID,
		InventoryName: items[i].Name,
		Type:          typ,
		Amount:        amount,
		Date:          l.now(),
		User:          defaultName(user),
	}
	items[i].Stock = addStock(items[i].Stock, tx.SignedAmount())
	txs = append(txs, tx)

	if err := l.commitBoth(ctx, "apply_transaction", items, txs); err != nil {
		return nil, err
	}

	l.metrics.TransactionApplied(string(typ))
	l.logger.Info("stock transaction applied",
		"transaction_id", tx.ID,
		"item_id", tx.InventoryID,
		"type", string(typ),
		"amount", amount,
		"stock", items[i].Stock,
	)
	return &tx, nil
}

// UpdateTransaction changes the type, amount, user or time of a journal
// entry in place. Only the difference between the new and old signed effect
// is applied to stock. The item reference cannot be changed.
func (l *InventoryLedger) UpdateTransaction(ctx context.Context, edit domain.StockTransaction) (*domain.StockTransaction, error) {
	if err := validateMovement(edit.Type, edit.Amount); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txs, err := l.transactions.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_transaction", err)
	}
	ti := indexByID(txs, edit.ID, idOfTransaction)
	if ti < 0 {
		return nil, fmt.Errorf("update transaction %s: %w", edit.ID, domain.ErrTransactionNotFound)
	}
	old := txs[ti]

	updated := old
	updated.Type = edit.Type
	updated.Amount = edit.Amount
	if u := strings.TrimSpace(edit.User); u != "" {
		updated.User = u
	}
	if !edit.Date.IsZero() {
		updated.Date = edit.Date
	}
	txs[ti] = updated

	net := updated.SignedAmount() - old.SignedAmount()
	if math.Abs(net) < stockEpsilon {
		if err := l.commitJournal(ctx, "update_transaction", txs); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	if err := l.adjustAndCommit(ctx, "update_transaction", old.InventoryID, net, txs); err != nil {
		return nil, err
	}
	l.logger.Info("stock transaction updated", "transaction_id", updated.ID, "net_adjustment", net)
	return &updated, nil
}

// DeleteTransaction removes a journal entry and reverses its signed effect on
// the item's current stock, whatever that stock has become since.
func (l *InventoryLedger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs, err := l.transactions.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_transaction", err)
	}
	ti := indexByID(txs, id, idOfTransaction)
	if ti < 0 {
		return fmt.Errorf("delete transaction %s: %w", id, domain.ErrTransactionNotFound)
	}
	old := txs[ti]
	txs = slices.Delete(txs, ti, ti+1)

	if err := l.adjustAndCommit(ctx, "delete_transaction", old.InventoryID, -old.SignedAmount(), txs); err != nil {
		return err
	}
	l.logger.Info("stock transaction deleted", "transaction_id", id, "reverted", -old.SignedAmount())
	return nil
}

// ListTransactions filters the journal by item name or user, newest first.
func (l *InventoryLedger) ListTransactions(ctx context.Context, query string) ([]domain.StockTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.transactions.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("list_transactions", err)
	}
	out := []domain.StockTransaction{}
	for _, tx := range newestFirst(all) {
		if matches(query, tx.InventoryName, tx.User) {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.StockTransaction) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

// adjustAndCommit adds delta to the item's stock and commits it with the
// journal. A journal entry whose item no longer exists is still written, with
// no stock change.
func (l *InventoryLedger) adjustAndCommit(ctx context.Context, op, itemID string, delta float64, txs []domain.StockTransaction) error {
	items, err := l.items.Load(ctx)
	if err != nil {
		return l.storageFailed(op, err)
	}
	i := indexByID(items, itemID, idOfItem)
	if i < 0 {
		l.logger.Warn("transaction references a missing item, stock left unchanged", "operation", op, "item_id", itemID)
		return l.commitJournal(ctx, op, txs)
	}
	items[i].Stock = addStock(items[i].Stock, delta)
	return l.commitBoth(ctx, op, items, txs)
}

func (l *InventoryLedger) commitBoth(ctx context.Context, op string, items []domain.InventoryItem, txs []domain.StockTransaction) error {
	entries, err := stageAll(stage(l.items, items), stage(l.transactions, txs))
	if err != nil {
		return l.storageFailed(op, err)
	}
	return l.commitEntries(ctx, op, entries)
}

func (l *InventoryLedger) commitJournal(ctx context.Context, op string, txs []domain.StockTransaction) error {
	entries, err := stageAll(stage(l.transactions, txs))
	if err != nil {
		return l.storageFailed(op, err)
	}
	return l.commitEntries(ctx, op, entries)
}

func (l *InventoryLedger) saveItems(ctx context.Context, op string, items []domain.InventoryItem) error {
	entries, err := stageAll(stage(l.items, items))
	if err != nil {
		return l.storageFailed(op, err)
	}
	return l.commitEntries(ctx, op, entries)
}

func (l *InventoryLedger) commitEntries(ctx context.Context, op string, entries []kvstore.Entry) error {
	if err := l.commit.Commit(ctx, entries...); err != nil {
		return l.storageFailed(op, err)
	}
	return nil
}

func validateMovement(typ domain.TxType, amount float64) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, typ)
	}
	if !finite(amount) || amount <= 0 {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidAmount, amount)
	}
	return nil
}

// addStock adds delta to stock and rounds the total to stockPlaces.
func addStock(stock, delta float64) float64 {
	return decimal.NewFromFloat(stock).
		Add(decimal.NewFromFloat(delta)).
		Round(stockPlaces).
		InexactFloat64()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func applyItemInput(it *domain.InventoryItem, in ItemInput) {
	it.Name = strings.TrimSpace(in.Name)
	it.Type = in.Type
	it.Stock = in.Stock
	it.Unit = in.Unit
	it.MinThreshold = in.MinThreshold
}
