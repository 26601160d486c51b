// Package export renders due lists, the stock journal and service history as
// CSV or XLSX for printing and spreadsheets. Rows keep the order of the
// ledger operation that produced them.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/service"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" (the default for an empty value) or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds an attachment name such as "due_2024-03-10.csv".
func (f Format) Filename(base string, day domain.Date) string {
	return fmt.Sprintf("%s_%s.%s", base, day.String(), f)
}

// Table is a titled grid. Cell values are strings or numbers.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]any
}

func Write(w io.Writer, f Format, t Table) error {
	if f == FormatXLSX {
		return WriteXLSX(w, t)
	}
	return WriteCSV(w, t)
}

// DueWorkOrder lists due and overdue equipment with blank columns for the
// technician to fill in on paper.
func DueWorkOrder(items []service.DueItem) Table {
	t := Table{
		Sheet: "Work Order",
		Header: []string{
			"Status", "Equipment", "Location", "Type", "Lubricant", "Capacity", "Due Date",
			"Performed At", "Performer Signature", "Remarks", "Done",
		},
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []any{
			statusText(it.Status),
			it.Name,
			it.Location,
			it.Type,
			it.Lubricant,
			it.Capacity,
			it.NextLubricated.String(),
			"", "", "", "",
		})
	}
	return t
}

func Journal(txs []domain.StockTransaction) Table {
	t := Table{
		Sheet:  "Stock Journal",
		Header: []string{"Time", "Item", "Type", "Amount", "User"},
	}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []any{
			tx.Date.Format("2006-01-02 15:04"),
			tx.InventoryName,
			txTypeText(tx.Type),
			tx.Amount,
			tx.User,
		})
	}
	return t
}

func History(views []service.RecordView) Table {
	t := Table{
		Sheet:  "Service History",
		Header: []string{"Date", "Equipment", "Performed By", "Notes"},
	}
	for _, v := range views {
		name := v.EquipmentName
		if v.EquipmentMissing {
			name += " (deleted)"
		}
		t.Rows = append(t.Rows, []any{v.Date.String(), name, v.PerformedBy, v.Notes})
	}
	return t
}

func statusText(s domain.Status) string {
	switch s {
	case domain.StatusOverdue:
		return "Overdue"
	case domain.StatusDue:
		return "Due today"
	default:
		return "OK"
	}
}

func txTypeText(t domain.TxType) string {
	if t == domain.TxIn {
		return "Inbound"
	}
	return "Outbound"
}
