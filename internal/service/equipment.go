package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/lubetrack/internal/advisor"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/schedule"
)

// EquipmentInput carries the editable fields of a piece of equipment.
// NextLubricated overrides the computed next date when set.
type EquipmentInput struct {
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	Location       string       `json:"location"`
	Lubricant      string       `json:"lubricant"`
	Capacity       string       `json:"capacity"`
	CycleDays      int          `json:"cycleDays"`
	LastLubricated domain.Date  `json:"lastLubricated"`
	NextLubricated *domain.Date `json:"nextLubricated,omitempty"`
	Notes          string       `json:"notes"`
}

func (in EquipmentInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case in.CycleDays < 1:
		return fmt.Errorf("%w: cycle days must be at least 1", domain.ErrInvalidInput)
	case in.LastLubricated.IsZero():
		return fmt.Errorf("%w: last lubrication date is required", domain.ErrInvalidInput)
	}
	return nil
}

// Completion describes a performed lubrication task.
type Completion struct {
	PerformedAt domain.Date  `json:"performedAt"`
	PerformedBy string       `json:"performedBy"`
	Notes       string       `json:"notes"`
	NextDue     *domain.Date `json:"nextDue,omitempty"`
}

// DueItem is equipment that needs attention today or earlier.
type DueItem struct {
	domain.Equipment
	Status domain.Status `json:"status"`
}

type EquipmentLedger struct {
	*ledger
	equipment collection[domain.Equipment]
	records   collection[domain.ServiceRecord]
}

func idOfEquipment(e domain.Equipment) string { return e.ID }

func (l *EquipmentLedger) List(ctx context.Context) ([]domain.Equipment, error) {
	return l.Search(ctx, "")
}

// Search filters equipment by name, location or type.
func (l *EquipmentLedger) Search(ctx context.Context, query string) ([]domain.Equipment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("list_equipment", err)
	}
	out := make([]domain.Equipment, 0, len(all))
	for _, e := range all {
		if matches(query, e.Name, e.Location, e.Type) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *EquipmentLedger) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("get_equipment", err)
	}
	i := indexByID(all, id, idOfEquipment)
	if i < 0 {
		return nil, fmt.Errorf("get equipment %s: %w", id, domain.ErrEquipmentNotFound)
	}
	return &all[i], nil
}

func (l *EquipmentLedger) Create(ctx context.Context, in EquipmentInput) (*domain.Equipment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_equipment", err)
	}

	e := domain.Equipment{ID: l.newID()}
	applyEquipmentInput(&e, in)
	all = append(all, e)

	if err := l.save(ctx, "create_equipment", all); err != nil {
		return nil, err
	}
	l.logger.Info("equipment created", "equipment_id", e.ID, "next_lubricated", e.NextLubricated.String())
	return &e, nil
}

func (l *EquipmentLedger) Update(ctx context.Context, id string, in EquipmentInput) (*domain.Equipment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_equipment", err)
	}
	i := indexByID(all, id, idOfEquipment)
	if i < 0 {
		return nil, fmt.Errorf("update equipment %s: %w", id, domain.ErrEquipmentNotFound)
	}
	applyEquipmentInput(&all[i], in)

	if err := l.save(ctx, "update_equipment", all); err != nil {
		return nil, err
	}
	updated := all[i]
	return &updated, nil
}

// Delete removes the equipment. Its service records stay in the history.
func (l *EquipmentLedger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_equipment", err)
	}
	i := indexByID(all, id, idOfEquipment)
	if i < 0 {
		return fmt.Errorf("delete equipment %s: %w", id, domain.ErrEquipmentNotFound)
	}
	all = slices.Delete(all, i, i+1)

	if err := l.save(ctx, "delete_equipment", all); err != nil {
		return err
	}
	l.logger.Info("equipment deleted", "equipment_id", id)
	return nil
}

// CompleteTask records a performed lubrication and moves the equipment's due
// date forward. The new service record and the equipment change are
// committed together or not at all.
func (l *EquipmentLedger) CompleteTask(ctx context.Context, id string, c Completion) (*domain.Equipment, *domain.ServiceRecord, error) {
	if c.PerformedAt.IsZero() {
		return nil, nil, fmt.Errorf("%w: performed date is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, nil, l.storageFailed("complete_task", err)
	}
	i := indexByID(all, id, idOfEquipment)
	if i < 0 {
		return nil, nil, fmt.Errorf("complete task %s: %w", id, domain.ErrEquipmentNotFound)
	}
	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, nil, l.storageFailed("complete_task", err)
	}

	e := &all[i]
	rec := domain.ServiceRecord{
		ID:            l.newID(),
		EquipmentID:   e.ID,
		EquipmentName: e.Name,
		Date:          c.PerformedAt,
		PerformedBy:   defaultName(c.PerformedBy),
		Notes:         c.Notes,
	}
	records = append(records, rec)

	e.LastLubricated = c.PerformedAt
	e.NextLubricated = schedule.NextDueDate(c.PerformedAt, e.CycleDays)
	if c.NextDue != nil && !c.NextDue.IsZero() {
		e.NextLubricated = *c.NextDue
	}

	entries, err := stageAll(stage(l.equipment, all), stage(l.records, records))
	if err != nil {
		return nil, nil, l.storageFailed("complete_task", err)
	}
	if err := l.commit.Commit(ctx, entries...); err != nil {
		return nil, nil, l.storageFailed("complete_task", err)
	}

	l.metrics.TaskCompleted()
	l.logger.Info("lubrication task completed",
		"equipment_id", e.ID,
		"performed_at", c.PerformedAt.String(),
		"next_lubricated", e.NextLubricated.String(),
	)
	updated := *e
	return &updated, &rec, nil
}

// DueItems returns equipment that is due or overdue on today, earliest due
// date first. Equipment sharing a due date keeps its stored order.
func (l *EquipmentLedger) DueItems(ctx context.Context, today domain.Date) ([]DueItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("due_items", err)
	}

	due := []DueItem{}
	for _, e := range all {
		if s := schedule.StatusOf(e.NextLubricated, today); s != domain.StatusOK {
			due = append(due, DueItem{Equipment: e, Status: s})
		}
	}
	slices.SortStableFunc(due, func(a, b DueItem) int {
		return a.NextLubricated.Compare(b.NextLubricated)
	})
	return due, nil
}

// Snapshots describes every piece of equipment as of today for the advisor.
func (l *EquipmentLedger) Snapshots(ctx context.Context, today domain.Date) ([]advisor.Snapshot, error) {
	all, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]advisor.Snapshot, 0, len(all))
	for _, e := range all {
		out = append(out, advisor.Snapshot{
			Name:        e.Name,
			Type:        e.Type,
			Lubricant:   e.Lubricant,
			NextDue:     e.NextLubricated,
			Status:      schedule.StatusOf(e.NextLubricated, today),
			DaysOverdue: schedule.DaysOverdue(e.NextLubricated, today),
		})
	}
	return out, nil
}

func (l *EquipmentLedger) save(ctx context.Context, op string, all []domain.Equipment) error {
	entry, err := l.equipment.Stage(all)
	if err != nil {
		return l.storageFailed(op, err)
	}
	if err := l.commit.Commit(ctx, entry); err != nil {
		return l.storageFailed(op, err)
	}
	return nil
}

func applyEquipmentInput(e *domain.Equipment, in EquipmentInput) {
	e.Name = strings.TrimSpace(in.Name)
	e.Type = in.Type
	e.Location = in.Location
	e.Lubricant = in.Lubricant
	e.Capacity = in.Capacity
	e.CycleDays = in.CycleDays
	e.Notes = in.Notes
	e.LastLubricated = in.LastLubricated
	e.NextLubricated = schedule.NextDueDate(in.LastLubricated, in.CycleDays)
	if in.NextLubricated != nil && !in.NextLubricated.IsZero() {
		e.NextLubricated = *in.NextLubricated
	}
}
