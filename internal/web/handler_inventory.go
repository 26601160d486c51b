package web

import (
	"net/http"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/export"
	"github.com/vbonduro/lubetrack/internal/service"
)

// itemView adds the derived low-stock flag to an item.
type itemView struct {
	domain.InventoryItem
	LowStock bool `json:"lowStock"`
}

func itemViews(items []domain.InventoryItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{InventoryItem: it, LowStock: it.LowStock()})
	}
	return out
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Inventory.ListItems(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, itemViews(items))
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Inventory.LowStock(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, itemViews(items))
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, err := s.services.Inventory.CreateItem(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, itemView{InventoryItem: *it, LowStock: it.LowStock()})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, err := s.services.Inventory.UpdateItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, itemView{InventoryItem: *it, LowStock: it.LowStock()})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Inventory.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type movementRequest struct {
	Type   domain.TxType `json:"type"`
	Amount float64       `json:"amount"`
	User   string        `json:"user"`
}

func (s *Server) handleApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.services.Inventory.ApplyTransaction(r.Context(), r.PathValue("id"), req.Type, req.Amount, req.User)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.services.Inventory.ListTransactions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, txs)
}

func (s *Server) handleExportJournal(w http.ResponseWriter, r *http.Request) {
	txs, err := s.services.Inventory.ListTransactions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeExport(w, r, "journal", export.Journal(txs))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var edit domain.StockTransaction
	if err := decodeJSON(w, r, &edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	edit.ID = r.PathValue("id")
	tx, err := s.services.Inventory.UpdateTransaction(r.Context(), edit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Inventory.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
