package store

import (
	"time"

	"github.com/vbonduro/lubetrack/internal/domain"
)

// Demonstration data written the first time each key is read.

func seedEquipment(today domain.Date) []domain.Equipment {
	return []domain.Equipment{
		{
			ID:             "1",
			Name:           "Main Drive Motor",
			Type:           "Motor",
			Location:       "Line A",
			Lubricant:      "Mobil Polyrex EM",
			Capacity:       "20 g",
			CycleDays:      30,
			LastLubricated: domain.NewDate(2023, time.October, 1),
			NextLubricated: domain.NewDate(2023, time.October, 31),
			Notes:          "Check bearing temperature",
		},
		{
			ID:             "2",
			Name:           "Hydraulic Pump Unit",
			Type:           "Pump",
			Location:       "Press Shop",
			Lubricant:      "Shell Tellus S2 M 46",
			Capacity:       "200 L",
			CycleDays:      90,
			LastLubricated: today.AddDays(-88),
			NextLubricated: today.AddDays(2),
			Notes:          "Inspect for leaks",
		},
		{
			ID:             "3",
			Name:           "Conveyor Gearbox",
			Type:           "Gearbox",
			Location:       "Warehouse",
			Lubricant:      "Mobilgear 600 XP 220",
			Capacity:       "15 L",
			CycleDays:      180,
			LastLubricated: today,
			NextLubricated: today.AddDays(180),
		},
	}
}

func seedRecords(today domain.Date) []domain.ServiceRecord {
	return []domain.ServiceRecord{
		{ID: "r1", EquipmentID: "1", EquipmentName: "Main Drive Motor", Date: domain.NewDate(2023, time.October, 1), PerformedBy: "J. Miller", Notes: "Routine greasing"},
		{ID: "r2", EquipmentID: "1", EquipmentName: "Main Drive Motor", Date: domain.NewDate(2023, time.September, 1), PerformedBy: "J. Miller", Notes: "Routine greasing"},
		{ID: "r3", EquipmentID: "2", EquipmentName: "Hydraulic Pump Unit", Date: today.AddDays(-88), PerformedBy: "A. Chen", Notes: "Topped up oil, replaced filter"},
		{ID: "r4", EquipmentID: "3", EquipmentName: "Conveyor Gearbox", Date: today, PerformedBy: "A. Chen", Notes: "Oil change"},
	}
}

func seedInventory(domain.Date) []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: "1", Name: "Mobil Polyrex EM", Type: "Grease", Stock: 15.5, Unit: "kg", MinThreshold: 5},
		{ID: "2", Name: "Shell Tellus S2 M 46", Type: "Hydraulic Oil", Stock: 180, Unit: "L", MinThreshold: 50},
		{ID: "3", Name: "Mobilgear 600 XP 220", Type: "Gear Oil", Stock: 40, Unit: "L", MinThreshold: 10},
	}
}

func seedTransactions(now func() time.Time) func(domain.Date) []domain.StockTransaction {
	return func(domain.Date) []domain.StockTransaction {
		return []domain.StockTransaction{
			{ID: "t1", InventoryID: "1", InventoryName: "Mobil Polyrex EM", Type: domain.TxOut, Amount: 0.5, Date: now(), User: "J. Miller"},
		}
	}
}

func seedSOPCategories(domain.Date) []domain.SOPCategory {
	return []domain.SOPCategory{
		{ID: "c1", Name: "Lubrication Procedures", Description: "Step-by-step lubrication work instructions"},
		{ID: "c2", Name: "Safety", Description: "Lockout and handling rules for lubricants"},
		{ID: "c3", Name: "Storage", Description: "Lubricant storage and labeling"},
	}
}

func seedSOPDocuments(today domain.Date) []domain.SOPDocument {
	return []domain.SOPDocument{
		{
			ID:         "d1",
			CategoryID: "c1",
			Title:      "Motor Bearing Greasing",
			Content:    "1. Lock out the motor.\n2. Clean the grease fitting.\n3. Apply the specified amount slowly.\n4. Run the motor and check bearing temperature.",
			UpdatedAt:  today,
		},
		{
			ID:         "d2",
			CategoryID: "c2",
			Title:      "Lockout Before Lubrication",
			Content:    "Isolate and lock all energy sources before opening any lubrication point.",
			UpdatedAt:  today,
		},
	}
}
