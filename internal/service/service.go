package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vbonduro/lubetrack/internal/advisor"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/kvstore"
	"github.com/vbonduro/lubetrack/internal/metrics"
	"github.com/vbonduro/lubetrack/internal/store"
)

// notRecorded stands in for a blank performer or user name.
const notRecorded = "Not recorded"

// collection is the subset of store.Collection the ledgers require.
type collection[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Stage(items []T) (kvstore.Entry, error)
}

// committer is the subset of store.Store the ledgers require.
type committer interface {
	Commit(ctx context.Context, entries ...kvstore.Entry) error
}

// Services groups the ledgers built over one store. All of them share a
// single lock, so every operation runs its load-modify-commit cycle without
// interleaving with another.
type Services struct {
	Equipment *EquipmentLedger
	Inventory *InventoryLedger
	Records   *ServiceLog
	SOP       *SOPLibrary
	Assistant *Assistant
}

type Options struct {
	Advisor advisor.Advisor
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to random UUIDs.
	NewID func() string
}

func New(st *store.Store, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	base := &ledger{
		mu:      &sync.Mutex{},
		commit:  st,
		now:     opts.Now,
		newID:   opts.NewID,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}

	equipment := &EquipmentLedger{ledger: base, equipment: st.Equipment, records: st.Records}
	return &Services{
		Equipment: equipment,
		Inventory: &InventoryLedger{ledger: base, items: st.Inventory, transactions: st.Transactions},
		Records:   &ServiceLog{ledger: base, records: st.Records, equipment: st.Equipment},
		SOP:       &SOPLibrary{ledger: base, categories: st.SOPCategories, documents: st.SOPDocuments},
		Assistant: &Assistant{equipment: equipment, advisor: opts.Advisor, now: opts.Now, logger: opts.Logger, metrics: opts.Metrics},
	}
}

type ledger struct {
	mu      *sync.Mutex
	commit  committer
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func (l *ledger) today() domain.Date {
	return domain.DateOf(l.now())
}

// storageFailed records a failed load or commit and returns err unchanged.
func (l *ledger) storageFailed(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		l.metrics.StorageFailure(op)
		l.logger.Error("storage failure", "operation", op, "error", err)
	}
	return err
}

// stageAll encodes each staged collection, stopping at the first error.
func stageAll(stages ...func() (kvstore.Entry, error)) ([]kvstore.Entry, error) {
	entries := make([]kvstore.Entry, 0, len(stages))
	for _, stage := range stages {
		e, err := stage()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func stage[T any](c collection[T], items []T) func() (kvstore.Entry, error) {
	return func() (kvstore.Entry, error) { return c.Stage(items) }
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
}

// matches reports whether any field contains q, ignoring case. An empty query
// matches everything.
func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// newestFirst reverses the stored order so that, after a stable sort by
// date, entries sharing a date list the most recently added first.
func newestFirst[T any](items []T) []T {
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}

func defaultName(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notRecorded
	}
	return s
}
