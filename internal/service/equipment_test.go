package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/store"
)

func TestEquipmentCreateComputesNextDate(t *testing.T) {
	f := newFixture(t, nil)

	e := f.addEquipment(t, "Main Drive Motor", 10, "2024-02-20")

	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "2024-02-20", e.LastLubricated.String())
	assert.Equal(t, "2024-03-01", e.NextLubricated.String())

	got, err := f.Equipment.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, *e, *got)
}

func TestEquipmentCreateWithOverride(t *testing.T) {
	f := newFixture(t, nil)

	e, err := f.Equipment.Create(context.Background(), EquipmentInput{
		Name:           "Pump",
		CycleDays:      90,
		LastLubricated: date("2024-01-01"),
		NextLubricated: datePtr("2024-02-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-15", e.NextLubricated.String())
}

func TestEquipmentCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input EquipmentInput
	}{
		{name: "blank name", input: EquipmentInput{Name: "  ", CycleDays: 30, LastLubricated: date("2024-01-01")}},
		{name: "zero cycle", input: EquipmentInput{Name: "Fan", CycleDays: 0, LastLubricated: date("2024-01-01")}},
		{name: "negative cycle", input: EquipmentInput{Name: "Fan", CycleDays: -5, LastLubricated: date("2024-01-01")}},
		{name: "missing last date", input: EquipmentInput{Name: "Fan", CycleDays: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			_, err := f.Equipment.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			all, err := f.Equipment.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestEquipmentUpdateRecomputesNextDate(t *testing.T) {
	f := newFixture(t, nil)
	e := f.addEquipment(t, "Gearbox", 30, "2024-01-01")

	updated, err := f.Equipment.Update(context.Background(), e.ID, EquipmentInput{
		Name:           "Gearbox 2",
		CycleDays:      60,
		LastLubricated: date("2023-12-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, "Gearbox 2", updated.Name)
	assert.Equal(t, "2024-02-13", updated.NextLubricated.String())
}

func TestEquipmentUpdateNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.Equipment.Update(context.Background(), "missing", EquipmentInput{Name: "x", CycleDays: 1, LastLubricated: date("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
}

func TestEquipmentDeleteKeepsRecords(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	e := f.addEquipment(t, "Motor", 30, "2024-01-01")
	_, _, err := f.Equipment.CompleteTask(ctx, e.ID, Completion{PerformedAt: date("2024-02-01"), PerformedBy: "Ana"})
	require.NoError(t, err)

	require.NoError(t, f.Equipment.Delete(ctx, e.ID))

	_, err = f.Equipment.Get(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)

	history, err := f.Records.History(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.ErrorIs(t, f.Equipment.Delete(ctx, e.ID), domain.ErrEquipmentNotFound)
}

func TestEquipmentSearch(t *testing.T) {
	f := newFixture(t, nil)
	f.addEquipment(t, "Main Drive Motor", 30, "2024-01-01")
	f.addEquipment(t, "Hydraulic Pump", 30, "2024-01-01")

	found, err := f.Equipment.Search(context.Background(), "PUMP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hydraulic Pump", found[0].Name)

	found, err = f.Equipment.Search(context.Background(), "line a")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestCompleteTaskThirtyDayCycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	e := f.addEquipment(t, "Main Drive Motor", 30, "2023-12-01")

	updated, rec, err := f.Equipment.CompleteTask(ctx, e.ID, Completion{
		PerformedAt: date("2024-01-01"),
		PerformedBy: "J. Miller",
		Notes:       "bearing quiet",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", updated.LastLubricated.String())
	assert.Equal(t, "2024-01-31", updated.NextLubricated.String())

	stored, err := f.Equipment.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", stored.NextLubricated.String())

	history, err := f.Records.History(ctx, RecordFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.Equal(t, "2024-01-01", history[0].Date.String())
	assert.Equal(t, "Main Drive Motor", history[0].EquipmentName)
	assert.Equal(t, "J. Miller", history[0].PerformedBy)
	assert.Equal(t, "bearing quiet", history[0].Notes)
}

func TestCompleteTaskOverrideAndDefaultPerformer(t *testing.T) {
	f := newFixture(t, nil)
	e := f.addEquipment(t, "Pump", 90, "2024-01-01")

	updated, rec, err := f.Equipment.CompleteTask(context.Background(), e.ID, Completion{
		PerformedAt: date("2024-03-01"),
		NextDue:     datePtr("2024-04-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", updated.NextLubricated.String())
	assert.Equal(t, notRecorded, rec.PerformedBy)
}

func TestCompleteTaskValidation(t *testing.T) {
	f := newFixture(t, nil)
	e := f.addEquipment(t, "Pump", 90, "2024-01-01")

	_, _, err := f.Equipment.CompleteTask(context.Background(), e.ID, Completion{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = f.Equipment.CompleteTask(context.Background(), "missing", Completion{PerformedAt: date("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
}

func TestCompleteTaskIsAtomic(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	e := f.addEquipment(t, "Motor", 30, "2024-01-01")

	f.kv.failOn(store.KeyRecords)
	_, _, err := f.Equipment.CompleteTask(ctx, e.ID, Completion{PerformedAt: date("2024-02-01")})
	require.ErrorIs(t, err, domain.ErrStorage)
	f.kv.failOn("")

	stored, err := f.Equipment.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", stored.LastLubricated.String())
	assert.Equal(t, "2024-01-31", stored.NextLubricated.String())

	history, err := f.Records.History(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDueItemsOrdering(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	today := date("2024-03-10")

	b := f.addEquipment(t, "B due today", 10, "2024-02-29")
	f.addEquipment(t, "C fine", 10, "2024-03-09")
	a := f.addEquipment(t, "A overdue", 10, "2024-02-28")

	due, err := f.Equipment.DueItems(ctx, today)
	require.NoError(t, err)
	require.Len(t, due, 2)

	assert.Equal(t, a.ID, due[0].ID)
	assert.Equal(t, domain.StatusOverdue, due[0].Status)
	assert.Equal(t, b.ID, due[1].ID)
	assert.Equal(t, domain.StatusDue, due[1].Status)
}

func TestDueItemsTiesKeepStoredOrder(t *testing.T) {
	f := newFixture(t, nil)
	first := f.addEquipment(t, "First", 5, "2024-01-01")
	second := f.addEquipment(t, "Second", 5, "2024-01-01")

	due, err := f.Equipment.DueItems(context.Background(), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, first.ID, due[0].ID)
	assert.Equal(t, second.ID, due[1].ID)
}

func TestDueItemsEmpty(t *testing.T) {
	f := newFixture(t, nil)
	f.addEquipment(t, "Fresh", 30, "2024-03-10")

	due, err := f.Equipment.DueItems(context.Background(), date("2024-03-10"))
	require.NoError(t, err)
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestSnapshots(t *testing.T) {
	f := newFixture(t, nil)
	f.addEquipment(t, "Late", 10, "2024-02-25")

	snaps, err := f.Equipment.Snapshots(context.Background(), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Late", snaps[0].Name)
	assert.Equal(t, domain.StatusOverdue, snaps[0].Status)
	assert.Equal(t, 4, snaps[0].DaysOverdue)
}
