package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/vbonduro/lubetrack/internal/domain"
)

// RecordInput is a manually entered history record.
type RecordInput struct {
	EquipmentID string      `json:"equipmentId"`
	Date        domain.Date `json:"date"`
	PerformedBy string      `json:"performedBy"`
	Notes       string      `json:"notes"`
}

// RecordEdit corrects an existing record. The equipment reference and name
// snapshot are kept.
type RecordEdit struct {
	Date        domain.Date `json:"date"`
	PerformedBy string      `json:"performedBy"`
	Notes       string      `json:"notes"`
}

type RecordFilter struct {
	EquipmentID string
	Query       string
}

// RecordView pairs a record with the equipment it references. When that
// equipment has been deleted, Equipment is nil and EquipmentMissing is set.
type RecordView struct {
	domain.ServiceRecord
	Equipment        *domain.Equipment `json:"equipment,omitempty"`
	EquipmentMissing bool              `json:"equipmentMissing"`
}

// ServiceLog is the lubrication history. Edits and deletes here never touch
// equipment state.
type ServiceLog struct {
	*ledger
	records   collection[domain.ServiceRecord]
	equipment collection[domain.Equipment]
}

func idOfRecord(r domain.ServiceRecord) string { return r.ID }

// History returns matching records, most recent date first.
func (l *ServiceLog) History(ctx context.Context, f RecordFilter) ([]RecordView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("history", err)
	}
	equipment, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("history", err)
	}

	byID := make(map[string]domain.Equipment, len(equipment))
	for _, e := range equipment {
		byID[e.ID] = e
	}

	views := []RecordView{}
	for _, r := range newestFirst(records) {
		if f.EquipmentID != "" && r.EquipmentID != f.EquipmentID {
			continue
		}
		if !matches(f.Query, r.EquipmentName, r.PerformedBy, r.Notes) {
			continue
		}
		v := RecordView{ServiceRecord: r}
		if e, ok := byID[r.EquipmentID]; ok {
			v.Equipment = &e
		} else {
			v.EquipmentMissing = true
		}
		views = append(views, v)
	}
	slices.SortStableFunc(views, func(a, b RecordView) int {
		return b.Date.Compare(a.Date)
	})
	return views, nil
}

func (l *ServiceLog) Get(ctx context.Context, id string) (*domain.ServiceRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("get_record", err)
	}
	i := indexByID(records, id, idOfRecord)
	if i < 0 {
		return nil, fmt.Errorf("get record %s: %w", id, domain.ErrRecordNotFound)
	}
	return &records[i], nil
}

// Create adds a record for existing equipment without changing its schedule.
func (l *ServiceLog) Create(ctx context.Context, in RecordInput) (*domain.ServiceRecord, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	equipment, err := l.equipment.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_record", err)
	}
	ei := indexByID(equipment, in.EquipmentID, idOfEquipment)
	if ei < 0 {
		return nil, fmt.Errorf("create record for %s: %w", in.EquipmentID, domain.ErrEquipmentNotFound)
	}
	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_record", err)
	}

	rec := domain.ServiceRecord{
		ID:            l.newID(),
		EquipmentID:   equipment[ei].ID,
		EquipmentName: equipment[ei].Name,
		Date:          in.Date,
		PerformedBy:   defaultName(in.PerformedBy),
		Notes:         in.Notes,
	}
	records = append(records, rec)

	if err := l.save(ctx, "create_record", records); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *ServiceLog) Update(ctx context.Context, id string, edit RecordEdit) (*domain.ServiceRecord, error) {
	if edit.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_record", err)
	}
	i := indexByID(records, id, idOfRecord)
	if i < 0 {
		return nil, fmt.Errorf("update record %s: %w", id, domain.ErrRecordNotFound)
	}
	records[i].Date = edit.Date
	records[i].PerformedBy = defaultName(edit.PerformedBy)
	records[i].Notes = edit.Notes

	if err := l.save(ctx, "update_record", records); err != nil {
		return nil, err
	}
	updated := records[i]
	return &updated, nil
}

func (l *ServiceLog) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.records.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_record", err)
	}
	i := indexByID(records, id, idOfRecord)
	if i < 0 {
		return fmt.Errorf("delete record %s: %w", id, domain.ErrRecordNotFound)
	}
	records = slices.Delete(records, i, i+1)

	return l.save(ctx, "delete_record", records)
}

func (l *ServiceLog) save(ctx context.Context, op string, records []domain.ServiceRecord) error {
	entry, err := l.records.Stage(records)
	if err != nil {
		return l.storageFailed(op, err)
	}
	if err := l.commit.Commit(ctx, entry); err != nil {
		return l.storageFailed(op, err)
	}
	return nil
}
