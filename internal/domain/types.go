package domain

import "time"

type Equipment struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Location       string `json:"location"`
	Lubricant      string `json:"lubricant"`
	Capacity       string `json:"capacity"`
	CycleDays      int    `json:"cycleDays"`
	LastLubricated Date   `json:"lastLubricated"`
	NextLubricated Date   `json:"nextLubricated"`
	Notes          string `json:"notes"`
}

// ServiceRecord is one entry of lubrication history. EquipmentName is a copy
// taken when the record was written and is not updated on rename.
type ServiceRecord struct {
	ID            string `json:"id"`
	EquipmentID   string `json:"equipmentId"`
	EquipmentName string `json:"equipmentName"`
	Date          Date   `json:"date"`
	PerformedBy   string `json:"performedBy"`
	Notes         string `json:"notes"`
}

type InventoryItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Stock        float64 `json:"stock"`
	Unit         string  `json:"unit"`
	MinThreshold float64 `json:"minThreshold"`
}

// LowStock reports whether the item is at or below its warning threshold.
func (i InventoryItem) LowStock() bool {
	return i.Stock <= i.MinThreshold
}

type TxType string

const (
	TxIn  TxType = "IN"
	TxOut TxType = "OUT"
)

func (t TxType) Valid() bool {
	return t == TxIn || t == TxOut
}

// StockTransaction is a journal entry. InventoryName is a snapshot of the
// item name at the time the entry was made.
type StockTransaction struct {
	ID            string    `json:"id"`
	InventoryID   string    `json:"inventoryId"`
	InventoryName string    `json:"inventoryName"`
	Type          TxType    `json:"type"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	User          string    `json:"user"`
}

// SignedAmount is the stock change implied by the entry: +Amount for IN,
// -Amount for OUT.
func (t StockTransaction) SignedAmount() float64 {
	return SignedAmount(t.Type, t.Amount)
}

func SignedAmount(typ TxType, amount float64) float64 {
	if typ == TxIn {
		return amount
	}
	return -amount
}

type SOPCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SOPDocument struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UpdatedAt  Date   `json:"updatedAt"`
}

// Status classifies equipment against its next lubrication date.
type Status string

const (
	StatusOK      Status = "OK"
	StatusDue     Status = "DUE"
	StatusOverdue Status = "OVERDUE"
)
